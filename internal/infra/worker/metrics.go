package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vlive-notify/internal/pkg/config"
)

// Metrics combines the shared configuration metrics with counters for the
// daily stats report job.
type Metrics struct {
	*config.Metrics

	// ReportRunsTotal counts report job runs by status (success/failure).
	ReportRunsTotal *prometheus.CounterVec

	// ReportLastSuccessTimestamp is the Unix time of the last report.
	ReportLastSuccessTimestamp prometheus.Gauge
}

// NewMetrics registers watcher runtime metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers on the given registerer; tests pass a private
// registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Metrics: config.NewMetricsWith("watcher", reg),

		ReportRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "watcher_report_runs_total",
			Help: "Stats report job runs by status",
		}, []string{"status"}),

		ReportLastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "watcher_report_last_success_timestamp",
			Help: "Unix timestamp of the last successful stats report",
		}),
	}
}

// RecordReportRun counts one report job run with the given status.
func (m *Metrics) RecordReportRun(status string) {
	m.ReportRunsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		m.ReportLastSuccessTimestamp.SetToCurrentTime()
	}
}
