// Package metrics provides centralized Prometheus metrics for the notifier.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle status label values for WatchMetrics.CyclesTotal.
const (
	CycleStatusSuccess    = "success"
	CycleStatusFetchError = "fetch_error"
	CycleStatusEmpty      = "empty"
)

// WatchMetrics provides Prometheus metrics for the polling engine.
//
// Metrics:
//   - watch_cycles_total: total poll cycles by outcome (success/fetch_error/empty)
//   - watch_cycle_duration_seconds: duration histogram of one fetch-detect-deliver cycle
//   - watch_videos_delivered_total: total videos delivered to the callback
//   - watch_last_success_timestamp: Unix timestamp of the last successful cycle
type WatchMetrics struct {
	CyclesTotal          *prometheus.CounterVec
	CycleDurationSeconds prometheus.Histogram
	VideosDeliveredTotal prometheus.Counter
	LastSuccessTimestamp prometheus.Gauge
}

// NewWatchMetrics creates a WatchMetrics instance registered with the default
// Prometheus registry via promauto. Creating it twice in one process panics.
func NewWatchMetrics() *WatchMetrics {
	return NewWatchMetricsWith(prometheus.DefaultRegisterer)
}

// NewWatchMetricsWith creates a WatchMetrics instance registered with the
// given registerer. Tests use this with an isolated registry.
func NewWatchMetricsWith(reg prometheus.Registerer) *WatchMetrics {
	factory := promauto.With(reg)

	return &WatchMetrics{
		CyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "watch_cycles_total",
			Help: "Total number of poll cycles by outcome",
		}, []string{"status"}),

		CycleDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "watch_cycle_duration_seconds",
			Help:    "Duration of one fetch-detect-deliver cycle in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),

		VideosDeliveredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "watch_videos_delivered_total",
			Help: "Total number of new videos delivered to the callback",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "watch_last_success_timestamp",
			Help: "Unix timestamp of the last successful poll cycle",
		}),
	}
}

// RecordCycle records the outcome and duration of one poll cycle.
func (m *WatchMetrics) RecordCycle(status string, duration time.Duration) {
	m.CyclesTotal.WithLabelValues(status).Inc()
	m.CycleDurationSeconds.Observe(duration.Seconds())
	if status == CycleStatusSuccess {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// RecordDelivered adds to the delivered-videos counter.
func (m *WatchMetrics) RecordDelivered(count int) {
	m.VideosDeliveredTotal.Add(float64(count))
}
