package worker

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "0 9 * * *", cfg.ReportSchedule)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
}

func TestConfig_Validate_CollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollInterval = -time.Second
	cfg.PageSize = 100
	cfg.ReportSchedule = "not a cron"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll interval")
	assert.Contains(t, err.Error(), "page size")
	assert.Contains(t, err.Error(), "report schedule")
}

func TestConfig_RecentsURL(t *testing.T) {
	cfg := DefaultConfig()
	assert.Contains(t, cfg.RecentsURL(), "pageSize=10")

	cfg.FeedURL = "http://localhost:8080/feed"
	assert.Equal(t, "http://localhost:8080/feed", cfg.RecentsURL())
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	metrics := NewMetricsWith(prometheus.NewRegistry())

	cfg := LoadConfigFromEnv(discardLogger(), metrics)

	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FallbackActive))
}

func TestLoadConfigFromEnv_ReadsEnvironment(t *testing.T) {
	t.Setenv("VLIVE_FEED_URL", "http://localhost:9999/feed")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("PAGE_SIZE", "5")
	t.Setenv("REPORT_SCHEDULE", "0 6 * * *")
	t.Setenv("WATCHER_TIMEZONE", "UTC")
	t.Setenv("TRACING_ENABLED", "false")

	metrics := NewMetricsWith(prometheus.NewRegistry())
	cfg := LoadConfigFromEnv(discardLogger(), metrics)

	assert.Equal(t, "http://localhost:9999/feed", cfg.FeedURL)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, "0 6 * * *", cfg.ReportSchedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FallbackActive))
}

func TestLoadConfigFromEnv_FallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "yesterday")
	t.Setenv("PAGE_SIZE", "500")
	t.Setenv("REPORT_SCHEDULE", "99 99 * * *")

	metrics := NewMetricsWith(prometheus.NewRegistry())
	cfg := LoadConfigFromEnv(discardLogger(), metrics)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.PollInterval, cfg.PollInterval)
	assert.Equal(t, defaults.PageSize, cfg.PageSize)
	assert.Equal(t, defaults.ReportSchedule, cfg.ReportSchedule)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbackActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("poll_interval")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("page_size")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("report_schedule")))

	// The fallback config must always pass its own validation.
	require.NoError(t, cfg.Validate())
}
