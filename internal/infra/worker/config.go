// Package worker holds the runtime scaffolding around the watch engine:
// environment configuration, health endpoints, and report-job metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"vlive-notify/internal/infra/scraper"
	"vlive-notify/internal/pkg/config"
	"vlive-notify/internal/usecase/watch"
)

// Config holds the runtime configuration for the watcher process. All fields
// load from environment variables with fail-open fallback: an invalid value
// is logged, counted in metrics, and replaced by its default so the process
// always starts.
type Config struct {
	// FeedURL overrides the recent-videos page URL. Empty means the
	// standard endpoint with PageSize applied.
	FeedURL string

	// PollInterval is the pause between poll cycles.
	PollInterval time.Duration

	// PageSize is the number of videos requested per poll.
	PageSize int

	// FetchTimeout bounds a single HTTP fetch of the feed page.
	FetchTimeout time.Duration

	// HealthPort serves the liveness and readiness endpoints.
	HealthPort int

	// MetricsPort serves the Prometheus /metrics endpoint.
	MetricsPort int

	// ReportSchedule is the cron expression for the daily stats report.
	ReportSchedule string

	// Timezone is the IANA timezone the report schedule runs in.
	Timezone string

	// TracingEnabled controls whether a tracer provider is installed.
	TracingEnabled bool
}

// DefaultConfig returns production defaults: a ten second poll matching the
// cadence the feed page updates at, and a morning stats report in KST.
func DefaultConfig() Config {
	return Config{
		PollInterval:   watch.DefaultInterval,
		PageSize:       scraper.DefaultPageSize,
		FetchTimeout:   15 * time.Second,
		HealthPort:     9091,
		MetricsPort:    9090,
		ReportSchedule: "0 9 * * *",
		Timezone:       "Asia/Seoul",
		TracingEnabled: true,
	}
}

// Validate checks every field and aggregates the failures.
func (c *Config) Validate() error {
	var errs []error

	if err := config.PositiveDuration(c.PollInterval); err != nil {
		errs = append(errs, fmt.Errorf("poll interval: %w", err))
	}
	if err := config.IntRange(scraper.MinPageSize, scraper.MaxPageSize)(c.PageSize); err != nil {
		errs = append(errs, fmt.Errorf("page size: %w", err))
	}
	if err := config.PositiveDuration(c.FetchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("fetch timeout: %w", err))
	}
	if err := config.IntRange(1024, 65535)(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.IntRange(1024, 65535)(c.MetricsPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if err := config.ValidateCronSchedule(c.ReportSchedule); err != nil {
		errs = append(errs, fmt.Errorf("report schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// RecentsURL resolves the feed URL the watcher polls, preferring the
// explicit override when set.
func (c *Config) RecentsURL() string {
	if c.FeedURL != "" {
		return c.FeedURL
	}
	return scraper.RecentsURL(c.PageSize)
}

// LoadConfigFromEnv loads the watcher configuration from the environment.
// Fallbacks never abort startup; each one is logged and recorded in metrics.
//
// Environment variables:
//   - VLIVE_FEED_URL: feed page override (default: standard endpoint)
//   - POLL_INTERVAL: Go duration, 1s to 10m (default: 10s)
//   - PAGE_SIZE: integer 5-15 (default: 10)
//   - FETCH_TIMEOUT: Go duration (default: 15s)
//   - HEALTH_PORT, METRICS_PORT: integer 1024-65535 (defaults: 9091, 9090)
//   - REPORT_SCHEDULE: five-field cron expression (default: "0 9 * * *")
//   - WATCHER_TIMEZONE: IANA timezone (default: "Asia/Seoul")
//   - TRACING_ENABLED: boolean (default: true)
func LoadConfigFromEnv(logger *slog.Logger, metrics *Metrics) *Config {
	cfg := DefaultConfig()
	fallbackActive := false

	apply := func(field string, warning string, applied bool) {
		if !applied {
			return
		}
		fallbackActive = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	cfg.FeedURL = config.LoadString("VLIVE_FEED_URL", cfg.FeedURL)

	interval := config.LoadDuration("POLL_INTERVAL", cfg.PollInterval,
		config.DurationRange(time.Second, 10*time.Minute))
	cfg.PollInterval = interval.Value
	apply("poll_interval", interval.Warning, interval.FallbackApplied)

	pageSize := config.LoadInt("PAGE_SIZE", cfg.PageSize,
		config.IntRange(scraper.MinPageSize, scraper.MaxPageSize))
	cfg.PageSize = pageSize.Value
	apply("page_size", pageSize.Warning, pageSize.FallbackApplied)

	fetchTimeout := config.LoadDuration("FETCH_TIMEOUT", cfg.FetchTimeout,
		config.DurationRange(time.Second, 2*time.Minute))
	cfg.FetchTimeout = fetchTimeout.Value
	apply("fetch_timeout", fetchTimeout.Warning, fetchTimeout.FallbackApplied)

	healthPort := config.LoadInt("HEALTH_PORT", cfg.HealthPort, config.IntRange(1024, 65535))
	cfg.HealthPort = healthPort.Value
	apply("health_port", healthPort.Warning, healthPort.FallbackApplied)

	metricsPort := config.LoadInt("METRICS_PORT", cfg.MetricsPort, config.IntRange(1024, 65535))
	cfg.MetricsPort = metricsPort.Value
	apply("metrics_port", metricsPort.Warning, metricsPort.FallbackApplied)

	schedule := config.LoadStringWith("REPORT_SCHEDULE", cfg.ReportSchedule, config.ValidateCronSchedule)
	cfg.ReportSchedule = schedule.Value
	apply("report_schedule", schedule.Warning, schedule.FallbackApplied)

	timezone := config.LoadStringWith("WATCHER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = timezone.Value
	apply("timezone", timezone.Warning, timezone.FallbackApplied)

	tracing := config.LoadBool("TRACING_ENABLED", cfg.TracingEnabled)
	cfg.TracingEnabled = tracing.Value
	apply("tracing_enabled", tracing.Warning, tracing.FallbackApplied)

	metrics.SetFallbackActive(fallbackActive)
	metrics.RecordLoad()

	return &cfg
}
