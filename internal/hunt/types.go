// Package hunt defines the domain types and the pure
// extract/score/snippet pipeline shared across subsystems.
package hunt

import "time"

// Entry is one raw record returned by a source fetcher.
type Entry struct {
	Title string
	Body  string
	URL   string
}

// Candidate is a discovered invite-code token with its provenance.
// Instances are immutable once created; JSON field names match the
// snapshot wire format consumed by the dashboard.
type Candidate struct {
	Code         string    `json:"code"`
	ExampleHTML  string    `json:"example_text"`
	SourceTitle  string    `json:"source_title"`
	URL          string    `json:"url"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Confidence   float64   `json:"confidence_score"`
	SourceType   string    `json:"source_type"`
}

// LogLevel classifies activity log entries.
type LogLevel string

// Activity log levels surfaced on the dashboard.
const (
	LevelInfo    LogLevel = "info"
	LevelDebug   LogLevel = "debug"
	LevelSuccess LogLevel = "success"
	LevelError   LogLevel = "error"
)

// LogEntry is one line of the rotating activity log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
}

// SourceHealth tracks the most recent outcome timestamps for a source.
// Both markers are retained as history; a success does not erase the
// last error.
type SourceHealth struct {
	Name        string     `json:"name"`
	Enabled     bool       `json:"enabled"`
	LastSuccess *time.Time `json:"last_success"`
	LastError   *time.Time `json:"last_error"`
}

// Snapshot is a consistent point-in-time copy of the store plus the
// configuration echo the dashboard displays. Candidates and the
// activity log are ordered most-recent-first.
type Snapshot struct {
	Query               string         `json:"query"`
	PollIntervalSeconds int            `json:"poll_interval_seconds"`
	MaxPosts            int            `json:"max_posts"`
	LastPoll            *time.Time     `json:"last_poll"`
	TotalCandidates     int            `json:"total_candidates"`
	UniqueCodes         int            `json:"unique_codes"`
	SuccessCount        int            `json:"success_count"`
	ErrorCount          int            `json:"error_count"`
	Candidates          []Candidate    `json:"candidates"`
	ActivityLog         []LogEntry     `json:"activity_log"`
	Sources             []SourceHealth `json:"sources"`
}

// PollConfig is the per-cycle view of configuration handed to the
// orchestrator and fetchers. It is re-read at the start of every cycle
// and treated as immutable for the cycle's duration.
type PollConfig struct {
	Query       string
	MaxPosts    int
	UserAgent   string
	GitHubToken string
	Interval    time.Duration
}

// Clock abstracts time.Now so cycle timing is testable.
type Clock interface {
	Now() time.Time
}
