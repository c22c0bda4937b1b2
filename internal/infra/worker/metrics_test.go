package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordReportRun(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	m.RecordReportRun("success")
	m.RecordReportRun("success")
	m.RecordReportRun("failure")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportRunsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportRunsTotal.WithLabelValues("failure")))
	assert.Positive(t, testutil.ToFloat64(m.ReportLastSuccessTimestamp))
}

func TestMetrics_FailureDoesNotTouchLastSuccess(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	m.RecordReportRun("failure")
	assert.Zero(t, testutil.ToFloat64(m.ReportLastSuccessTimestamp))
}

func TestNewMetricsWith_IncludesConfigMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)
	m.RecordLoad()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "watcher_config_load_timestamp")
}
