package poller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sorahunt/sorahunt/internal/hunt"
	"github.com/sorahunt/sorahunt/internal/metrics"
	"github.com/sorahunt/sorahunt/internal/source"
	"github.com/sorahunt/sorahunt/internal/state"
)

func init() {
	metrics.Init()
}

type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{
		now:  time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// fakeFetcher serves canned entries or errors per source name.
type fakeFetcher struct {
	mu      sync.Mutex
	entries map[string][]hunt.Entry
	errs    map[string]error
	calls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, d source.Descriptor, _ hunt.PollConfig) ([]hunt.Entry, error) {
	f.mu.Lock()
	f.calls = append(f.calls, d.Name)
	f.mu.Unlock()
	if err := f.errs[d.Name]; err != nil {
		return nil, err
	}
	return f.entries[d.Name], nil
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testPollConfig() hunt.PollConfig {
	return hunt.PollConfig{
		Query:     "Sora invite code",
		MaxPosts:  75,
		UserAgent: "hunter-test/1.0",
		Interval:  60 * time.Second,
	}
}

func newTestPoller(sources []source.Descriptor, fetcher Fetcher) (*Poller, *state.Store) {
	clock := newFakeClock(time.Millisecond)
	store := state.New(state.Config{}, clock, nil)
	for _, d := range sources {
		store.RegisterSource(d.Name, d.Enabled)
	}
	p := New(store, sources, fetcher, testPollConfig, clock, zap.NewNop())
	p.sleep = func(context.Context, time.Duration) {}
	return p, store
}

func logMessages(snap hunt.Snapshot) []string {
	out := make([]string, 0, len(snap.ActivityLog))
	for _, e := range snap.ActivityLog {
		out = append(out, e.Message)
	}
	return out
}

func TestRunCycle_DiscoversAndScoresCandidate(t *testing.T) {
	t.Parallel()

	sources := []source.Descriptor{{Name: "Reddit /r/OpenAI", Kind: source.KindRedditSubreddit, Enabled: true}}
	fetcher := &fakeFetcher{entries: map[string][]hunt.Entry{
		"Reddit /r/OpenAI": {{Title: "Got my SORA2X9 code!", Body: "", URL: "https://reddit.example/post"}},
	}}
	p, store := newTestPoller(sources, fetcher)

	fresh := p.RunCycle(context.Background(), testPollConfig())
	require.Equal(t, 1, fresh)

	snap := store.Snapshot()
	require.Len(t, snap.Candidates, 1)
	cand := snap.Candidates[0]
	require.Equal(t, "SORA2X9", cand.Code)
	require.Equal(t, "[Reddit /r/OpenAI] Got my SORA2X9 code!", cand.SourceTitle)
	require.Equal(t, "https://reddit.example/post", cand.URL)
	require.Equal(t, "reddit", cand.SourceType)
	require.InDelta(t, 0.75, cand.Confidence, 1e-9)
	require.Contains(t, cand.ExampleHTML, "<mark>SORA2X9</mark>")

	require.Equal(t, 1, snap.UniqueCodes)
	require.Equal(t, 1, snap.SuccessCount)
	require.Zero(t, snap.ErrorCount)
	require.NotNil(t, snap.LastPoll)

	msgs := logMessages(snap)
	require.Contains(t, msgs, "Starting poll cycle (1 sources)")
	require.Contains(t, msgs, "New candidate SORA2X9 from Reddit /r/OpenAI (conf=0.75)")
	require.Contains(t, msgs, "Discovered 1 new candidates")
}

func TestRunCycle_FailureIsIsolated(t *testing.T) {
	t.Parallel()

	sources := []source.Descriptor{
		{Name: "broken", Kind: source.KindBluesky, Enabled: true},
		{Name: "working", Kind: source.KindHackerNews, Enabled: true},
	}
	fetcher := &fakeFetcher{
		errs: map[string]error{"broken": errors.New("status 403 fetching https://example")},
		entries: map[string][]hunt.Entry{
			"working": {{Title: "spare invite AB12CD3", URL: "https://hn.example"}},
		},
	}
	p, store := newTestPoller(sources, fetcher)

	fresh := p.RunCycle(context.Background(), testPollConfig())
	require.Equal(t, 1, fresh)
	require.Equal(t, 2, fetcher.fetchCount())

	snap := store.Snapshot()
	require.Equal(t, 1, snap.SuccessCount)
	require.Equal(t, 1, snap.ErrorCount)
	require.Len(t, snap.Candidates, 1)

	require.Equal(t, "broken", snap.Sources[0].Name)
	require.Nil(t, snap.Sources[0].LastSuccess)
	require.NotNil(t, snap.Sources[0].LastError)
	require.NotNil(t, snap.Sources[1].LastSuccess)
	require.Nil(t, snap.Sources[1].LastError)

	var errorLogged bool
	for _, e := range snap.ActivityLog {
		if e.Level == hunt.LevelError && strings.Contains(e.Message, "broken failed:") {
			errorLogged = true
		}
	}
	require.True(t, errorLogged)
}

func TestRunCycle_RateDelayOnlyAfterSuccess(t *testing.T) {
	t.Parallel()

	sources := []source.Descriptor{
		{Name: "limited-broken", Enabled: true, RateLimitDelay: 2 * time.Second},
		{Name: "limited-working", Enabled: true, RateLimitDelay: 3 * time.Second},
		{Name: "unlimited", Enabled: true},
	}
	fetcher := &fakeFetcher{
		errs:    map[string]error{"limited-broken": errors.New("boom")},
		entries: map[string][]hunt.Entry{},
	}
	p, _ := newTestPoller(sources, fetcher)

	var slept []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) { slept = append(slept, d) }

	p.RunCycle(context.Background(), testPollConfig())
	require.Equal(t, []time.Duration{3 * time.Second}, slept)
}

func TestRunCycle_SkipsDisabledSources(t *testing.T) {
	t.Parallel()

	sources := []source.Descriptor{
		{Name: "off", Enabled: false},
		{Name: "on", Enabled: true},
	}
	fetcher := &fakeFetcher{entries: map[string][]hunt.Entry{}}
	p, store := newTestPoller(sources, fetcher)

	p.RunCycle(context.Background(), testPollConfig())
	require.Equal(t, []string{"on"}, fetcher.calls)

	msgs := logMessages(store.Snapshot())
	require.Contains(t, msgs, "Starting poll cycle (1 sources)")
}

func TestRunCycle_DeduplicatesAcrossCycles(t *testing.T) {
	t.Parallel()

	sources := []source.Descriptor{{Name: "repeat", Enabled: true}}
	fetcher := &fakeFetcher{entries: map[string][]hunt.Entry{
		"repeat": {{Title: "code SORA2X9 again", URL: "https://example/1"}},
	}}
	p, store := newTestPoller(sources, fetcher)

	require.Equal(t, 1, p.RunCycle(context.Background(), testPollConfig()))
	require.Equal(t, 0, p.RunCycle(context.Background(), testPollConfig()))

	snap := store.Snapshot()
	require.Len(t, snap.Candidates, 1)
	require.Equal(t, 1, snap.UniqueCodes)
	require.Contains(t, logMessages(snap), "No new candidates this cycle")
}

func TestRunCycle_SameCodeFromTwoSourcesStoredOnce(t *testing.T) {
	t.Parallel()

	sources := []source.Descriptor{
		{Name: "first", Enabled: true},
		{Name: "second", Enabled: true},
	}
	fetcher := &fakeFetcher{entries: map[string][]hunt.Entry{
		"first":  {{Title: "sharing AB12CD3"}},
		"second": {{Title: "also AB12CD3 here"}},
	}}
	p, store := newTestPoller(sources, fetcher)

	require.Equal(t, 1, p.RunCycle(context.Background(), testPollConfig()))
	snap := store.Snapshot()
	require.Len(t, snap.Candidates, 1)
	require.Equal(t, "first", snap.Candidates[0].SourceType)
	require.Equal(t, "[first] sharing AB12CD3", snap.Candidates[0].SourceTitle)
}

func TestDisplayTitleAndSourceType(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[Hacker News] Untitled", displayTitle("Hacker News", ""))
	require.Equal(t, "GitHub: issue", displayTitle("GitHub:", "GitHub: issue"))
	require.Equal(t, "[Bluesky search] spare code", displayTitle("Bluesky search", "spare code"))
	require.Equal(t, "hacker", sourceType("Hacker News"))
	require.Equal(t, "x", sourceType("X live (#SoraInvite)"))
	require.Equal(t, "unknown", sourceType(""))
}

func TestRun_SleepsIntervalMinusElapsedWithFloor(t *testing.T) {
	t.Parallel()

	sources := []source.Descriptor{{Name: "only", Enabled: true}}
	fetcher := &fakeFetcher{entries: map[string][]hunt.Entry{}}
	p, _ := newTestPoller(sources, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	var gaps []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) {
		gaps = append(gaps, d)
		if len(gaps) >= 2 {
			cancel()
		}
	}

	p.Run(ctx)
	require.Len(t, gaps, 2)
	for _, gap := range gaps {
		require.GreaterOrEqual(t, gap, 5*time.Second)
		require.LessOrEqual(t, gap, 60*time.Second)
	}
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	sources := []source.Descriptor{{Name: "only", Enabled: true}}
	fetcher := &fakeFetcher{entries: map[string][]hunt.Entry{}}
	p, _ := newTestPoller(sources, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	require.Zero(t, fetcher.fetchCount())
}
