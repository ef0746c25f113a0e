package state

import (
	"go.uber.org/zap"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

// Sink receives a mirror of every activity log entry as it is recorded.
type Sink interface {
	Consume(hunt.LogEntry)
}

// NopSink discards entries.
type NopSink struct{}

// Consume implements Sink.
func (NopSink) Consume(hunt.LogEntry) {}

// ZapSink forwards activity entries to a zap logger, mapping activity
// levels onto zap levels ("success" logs at info).
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink builds a ZapSink; a nil logger yields a no-op sink.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Consume implements Sink.
func (s *ZapSink) Consume(entry hunt.LogEntry) {
	field := zap.String("level", string(entry.Level))
	switch entry.Level {
	case hunt.LevelError:
		s.logger.Error(entry.Message, field)
	case hunt.LevelDebug:
		s.logger.Debug(entry.Message, field)
	default:
		s.logger.Info(entry.Message, field)
	}
}
