// Package poller drives the hunt loop: every cycle it fetches each
// enabled source, runs the extraction pipeline over the results, and
// records candidates, health and activity in the shared store.
package poller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sorahunt/sorahunt/internal/hunt"
	"github.com/sorahunt/sorahunt/internal/metrics"
	"github.com/sorahunt/sorahunt/internal/source"
	"github.com/sorahunt/sorahunt/internal/state"
)

// minCycleGap is the shortest pause between cycles, even when a cycle
// overruns the configured interval.
const minCycleGap = 5 * time.Second

// Fetcher retrieves raw entries for one source descriptor.
type Fetcher interface {
	Fetch(ctx context.Context, d source.Descriptor, cfg hunt.PollConfig) ([]hunt.Entry, error)
}

// Poller owns the poll loop. A single Poller runs on one goroutine;
// all shared mutation goes through the store.
type Poller struct {
	store   *state.Store
	sources []source.Descriptor
	fetcher Fetcher
	config  func() hunt.PollConfig
	clock   hunt.Clock
	logger  *zap.Logger

	// sleep is swapped out in tests so cycles run instantly.
	sleep func(ctx context.Context, d time.Duration)
}

// New constructs a Poller. config is re-read at the start of every
// cycle, so runtime settings take effect on the next cycle without a
// restart.
func New(store *state.Store, sources []source.Descriptor, fetcher Fetcher, config func() hunt.PollConfig, clock hunt.Clock, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		store:   store,
		sources: sources,
		fetcher: fetcher,
		config:  config,
		clock:   clock,
		logger:  logger,
		sleep:   waitFor,
	}
}

// Run executes cycles until ctx is cancelled. The pause after each
// cycle is the configured interval minus the cycle's elapsed time,
// floored at minCycleGap.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started",
		zap.Int("sources", len(p.sources)),
		zap.Duration("interval", p.config().Interval),
	)
	for ctx.Err() == nil {
		cfg := p.config()
		start := p.clock.Now()
		p.RunCycle(ctx, cfg)
		if ctx.Err() != nil {
			break
		}
		gap := cfg.Interval - p.clock.Now().Sub(start)
		if gap < minCycleGap {
			gap = minCycleGap
		}
		p.sleep(ctx, gap)
	}
	p.logger.Info("poller stopped")
}

// RunCycle polls every enabled source once and returns the number of
// new candidates discovered. A source failure is recorded and skipped;
// it never aborts the cycle.
func (p *Poller) RunCycle(ctx context.Context, cfg hunt.PollConfig) int {
	enabled := 0
	for _, d := range p.sources {
		if d.Enabled {
			enabled++
		}
	}
	p.store.AppendLog(hunt.LevelInfo, fmt.Sprintf("Starting poll cycle (%d sources)", enabled))

	start := p.clock.Now()
	newTotal := 0
	for _, d := range p.sources {
		if ctx.Err() != nil {
			break
		}
		if !d.Enabled {
			continue
		}

		entries, err := p.fetcher.Fetch(ctx, d, cfg)
		if err != nil {
			p.store.RecordFailure(d.Name, p.clock.Now())
			p.store.AppendLog(hunt.LevelError, fmt.Sprintf("%s failed: %v", d.Name, err))
			metrics.ObserveFetch(d.Name, "error")
			p.logger.Warn("source fetch failed", zap.String("source", d.Name), zap.Error(err))
			continue
		}

		p.store.RecordSuccess(d.Name, p.clock.Now())
		metrics.ObserveFetch(d.Name, "success")
		fresh := p.harvest(d, entries)
		newTotal += fresh
		p.store.AppendLog(hunt.LevelDebug, fmt.Sprintf("%s: %d item(s), %d new", d.Name, len(entries), fresh))

		// Courtesy pause toward the provider, only after a fetch that
		// actually reached it and succeeded.
		if d.RateLimitDelay > 0 {
			p.sleep(ctx, d.RateLimitDelay)
		}
	}

	if newTotal > 0 {
		p.store.AppendLog(hunt.LevelSuccess, fmt.Sprintf("Discovered %d new candidates", newTotal))
	} else {
		p.store.AppendLog(hunt.LevelInfo, "No new candidates this cycle")
	}
	p.store.SetLastPoll(p.clock.Now())
	metrics.ObserveCycle(p.clock.Now().Sub(start), newTotal)
	return newTotal
}

// harvest runs the extraction pipeline over a source's entries and
// stores every token not seen before.
func (p *Poller) harvest(d source.Descriptor, entries []hunt.Entry) int {
	fresh := 0
	for _, entry := range entries {
		text := entry.Title + "\n" + entry.Body
		for _, token := range hunt.ExtractTokens(text) {
			if !hunt.ValidToken(token) {
				continue
			}
			if !p.store.MarkSeen(token) {
				continue
			}
			cand := hunt.Candidate{
				Code:         token,
				ExampleHTML:  hunt.BuildSnippet(entry.Title, entry.Body, token),
				SourceTitle:  displayTitle(d.Name, entry.Title),
				URL:          entry.URL,
				DiscoveredAt: p.clock.Now(),
				Confidence:   hunt.Score(text, token),
				SourceType:   sourceType(d.Name),
			}
			p.store.AppendCandidate(cand)
			metrics.ObserveCandidate(d.Name)
			p.store.AppendLog(hunt.LevelSuccess,
				fmt.Sprintf("New candidate %s from %s (conf=%.2f)", token, d.Name, cand.Confidence))
			fresh++
		}
	}
	return fresh
}

// displayTitle prefixes the entry title with the source name unless the
// title already mentions it.
func displayTitle(sourceName, title string) string {
	if title == "" {
		title = "Untitled"
	}
	if sourceName != "" && !strings.Contains(title, sourceName) {
		return "[" + sourceName + "] " + title
	}
	return title
}

// sourceType is the coarse category shown per candidate: the lowercased
// first word of the source name.
func sourceType(sourceName string) string {
	fields := strings.Fields(sourceName)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func waitFor(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
