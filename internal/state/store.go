// Package state holds the shared, mutex-guarded aggregate of
// discovered candidates, the seen-token set, the rotating activity log
// and per-source health. A single poller goroutine mutates it while any
// number of HTTP readers take snapshots.
package state

import (
	"sync"
	"time"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

// Config bounds the store's ring buffers.
type Config struct {
	MaxCandidates int
	MaxLogEntries int
}

// Store owns all mutable process state. One coarse lock guards every
// mutation; it is held only for the single operation or snapshot copy,
// never across I/O.
type Store struct {
	mu           sync.Mutex
	maxCands     int
	maxLog       int
	candidates   []hunt.Candidate
	seen         map[string]struct{}
	activity     []hunt.LogEntry
	health       map[string]*hunt.SourceHealth
	order        []string
	successCount int
	errorCount   int
	lastPoll     *time.Time

	clock hunt.Clock
	sink  Sink
}

// New constructs a Store. sink receives a mirror of every activity
// entry; pass nil to disable mirroring.
func New(cfg Config, clock hunt.Clock, sink Sink) *Store {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 1000
	}
	if cfg.MaxLogEntries <= 0 {
		cfg.MaxLogEntries = 500
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Store{
		maxCands: cfg.MaxCandidates,
		maxLog:   cfg.MaxLogEntries,
		seen:     make(map[string]struct{}),
		health:   make(map[string]*hunt.SourceHealth),
		clock:    clock,
		sink:     sink,
	}
}

// RegisterSource adds a source to the health table. Snapshot reports
// sources in registration order.
func (s *Store) RegisterSource(name string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.health[name]; ok {
		return
	}
	s.health[name] = &hunt.SourceHealth{Name: name, Enabled: enabled}
	s.order = append(s.order, name)
}

// MarkSeen records token as seen and reports whether it was new. The
// check and the mark are one critical section: a token can be claimed
// exactly once, so no two candidates ever share a code.
func (s *Store) MarkSeen(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[token]; ok {
		return false
	}
	s.seen[token] = struct{}{}
	return true
}

// AppendCandidate pushes c onto the bounded ring, evicting the oldest
// entry once capacity is exceeded.
func (s *Store) AppendCandidate(c hunt.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = append(s.candidates, c)
	if len(s.candidates) > s.maxCands {
		s.candidates = append(s.candidates[:0], s.candidates[1:]...)
	}
}

// AppendLog records an activity entry with the current timestamp and
// mirrors it to the sink. The sink call happens outside the lock.
func (s *Store) AppendLog(level hunt.LogLevel, message string) {
	entry := hunt.LogEntry{Timestamp: s.clock.Now(), Level: level, Message: message}
	s.mu.Lock()
	s.activity = append(s.activity, entry)
	if len(s.activity) > s.maxLog {
		s.activity = append(s.activity[:0], s.activity[1:]...)
	}
	s.mu.Unlock()
	s.sink.Consume(entry)
}

// RecordSuccess notes a successful fetch for the named source.
func (s *Store) RecordSuccess(name string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.health[name]; ok {
		t := at
		h.LastSuccess = &t
	}
	s.successCount++
}

// RecordFailure notes a failed fetch for the named source.
func (s *Store) RecordFailure(name string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.health[name]; ok {
		t := at
		h.LastError = &t
	}
	s.errorCount++
}

// SetLastPoll records the completion time of the most recent cycle.
func (s *Store) SetLastPoll(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := at
	s.lastPoll = &t
}

// Snapshot returns a consistent copy of the store. Candidates and the
// activity log come back most-recent-first. The returned value shares
// no memory with the store, so readers never observe later mutations.
func (s *Store) Snapshot() hunt.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cands := make([]hunt.Candidate, len(s.candidates))
	for i, c := range s.candidates {
		cands[len(s.candidates)-1-i] = c
	}
	log := make([]hunt.LogEntry, len(s.activity))
	for i, e := range s.activity {
		log[len(s.activity)-1-i] = e
	}
	sources := make([]hunt.SourceHealth, 0, len(s.order))
	for _, name := range s.order {
		h := *s.health[name]
		if h.LastSuccess != nil {
			t := *h.LastSuccess
			h.LastSuccess = &t
		}
		if h.LastError != nil {
			t := *h.LastError
			h.LastError = &t
		}
		sources = append(sources, h)
	}
	var lastPoll *time.Time
	if s.lastPoll != nil {
		t := *s.lastPoll
		lastPoll = &t
	}

	return hunt.Snapshot{
		LastPoll:        lastPoll,
		TotalCandidates: len(s.candidates),
		UniqueCodes:     len(s.seen),
		SuccessCount:    s.successCount,
		ErrorCount:      s.errorCount,
		Candidates:      cands,
		ActivityLog:     log,
		Sources:         sources,
	}
}
