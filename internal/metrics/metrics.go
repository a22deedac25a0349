package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	refreshCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsdesk",
			Name:      "refresh_cycles_total",
			Help:      "Count of applied refresh cycles by scope and outcome.",
		},
		[]string{"scope", "outcome"},
	)

	refreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "opsdesk",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of snapshot fetch cycles.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsdesk",
			Name:      "transitions_total",
			Help:      "Count of dispatched transitions by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	snapshotTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "opsdesk",
			Name:      "snapshot_timestamp_seconds",
			Help:      "Unix time of the last applied snapshot per scope.",
		},
		[]string{"scope"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(refreshCycles, refreshDuration, transitions, snapshotTimestamp)
	})
}

func IncRefresh(scope, outcome string) {
	refreshCycles.WithLabelValues(scope, outcome).Inc()
}

func ObserveRefreshDuration(scope string, seconds float64) {
	refreshDuration.WithLabelValues(scope).Observe(seconds)
}

func IncTransition(action, outcome string) {
	transitions.WithLabelValues(action, outcome).Inc()
}

func SetSnapshotTimestamp(scope string, unixSeconds float64) {
	snapshotTimestamp.WithLabelValues(scope).Set(unixSeconds)
}
