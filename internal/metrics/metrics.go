// Package metrics exposes Prometheus collectors for the hunter service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	hunterFetchesTotal       *prometheus.CounterVec
	hunterCandidatesTotal    *prometheus.CounterVec
	hunterCyclesTotal        prometheus.Counter
	hunterCycleDurationSecs  prometheus.Histogram
	hunterCycleNewCandidates prometheus.Histogram
	hunterSnapshotReadsTotal prometheus.Counter

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		hunterFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hunter_fetches_total",
				Help: "Total source fetches, labeled by source and outcome.",
			},
			[]string{"source", "outcome"},
		)

		hunterCandidatesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hunter_candidates_total",
				Help: "Total new candidates discovered, labeled by source.",
			},
			[]string{"source"},
		)

		hunterCyclesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hunter_cycles_total",
				Help: "Total completed poll cycles.",
			},
		)

		hunterCycleDurationSecs = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hunter_cycle_duration_seconds",
				Help:    "Histogram of poll cycle wall time.",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		)

		hunterCycleNewCandidates = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hunter_cycle_new_candidates",
				Help:    "Histogram of new candidates discovered per cycle.",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		)

		hunterSnapshotReadsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hunter_snapshot_reads_total",
				Help: "Total snapshot reads served to API clients.",
			},
		)
	})
}

// Handler returns an http.Handler exposing the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one fetch attempt outcome ("success"/"error").
func ObserveFetch(source, outcome string) {
	hunterFetchesTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveCandidate counts a newly discovered candidate.
func ObserveCandidate(source string) {
	hunterCandidatesTotal.WithLabelValues(source).Inc()
}

// ObserveCycle records the completion of one poll cycle.
func ObserveCycle(duration time.Duration, newCandidates int) {
	hunterCyclesTotal.Inc()
	hunterCycleDurationSecs.Observe(duration.Seconds())
	hunterCycleNewCandidates.Observe(float64(newCandidates))
}

// ObserveSnapshotRead counts a snapshot served to a reader.
func ObserveSnapshotRead() {
	hunterSnapshotReadsTotal.Inc()
}
