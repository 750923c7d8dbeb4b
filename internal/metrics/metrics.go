package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes used as the "outcome" label
const (
	OutcomeSuccess    = "success"
	OutcomePartial    = "partial"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
)

var (
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crisisboard",
		Name:      "refresh_total",
		Help:      "Dashboard refreshes by outcome",
	}, []string{"outcome"})

	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "crisisboard",
		Name:      "refresh_duration_seconds",
		Help:      "Wall time of a dashboard refresh",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	feedFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crisisboard",
		Name:      "feed_failures_total",
		Help:      "Crisis feed failures by feed",
	}, []string{"feed"})

	crisisEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "crisisboard",
		Name:      "crisis_events",
		Help:      "Crisis events in the live snapshot",
	})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crisisboard",
		Name:      "step_duration_seconds",
		Help:      "Duration of individual refresh steps",
		Buckets:   prometheus.DefBuckets,
	}, []string{"step"})
)

// RecordRefresh counts a finished refresh and its duration
func RecordRefresh(outcome string, d time.Duration) {
	refreshTotal.WithLabelValues(outcome).Inc()
	refreshDuration.Observe(d.Seconds())
}

// RecordFeedFailure counts one failed crisis feed
func RecordFeedFailure(feed string) {
	feedFailures.WithLabelValues(feed).Inc()
}

// SetCrisisEvents publishes the number of events in the live snapshot
func SetCrisisEvents(n int) {
	crisisEvents.Set(float64(n))
}

// ObserveStep records how long a named step took
func ObserveStep(step string, d time.Duration) {
	stepDuration.WithLabelValues(step).Observe(d.Seconds())
}
