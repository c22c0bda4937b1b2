// Command notifier watches the VLive recent-videos feed and pushes new
// uploads and live broadcasts to the configured webhook channels.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"vlive-notify/internal/config"
	"vlive-notify/internal/infra/notifier"
	"vlive-notify/internal/infra/scraper"
	"vlive-notify/internal/infra/worker"
	"vlive-notify/internal/observability/logging"
	"vlive-notify/internal/observability/metrics"
	"vlive-notify/internal/usecase/watch"
)

func main() {
	channelsPath := flag.String("channels", os.Getenv("CHANNELS_CONFIG"), "path to the channels YAML config")
	flag.Parse()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	workerMetrics := worker.NewMetrics()
	cfg := worker.LoadConfigFromEnv(logger, workerMetrics)
	if cfg.TracingEnabled {
		tpShutdown := initTracing(logger)
		defer tpShutdown()
	}
	logger.Info("watcher configuration loaded",
		slog.Duration("poll_interval", cfg.PollInterval),
		slog.Int("page_size", cfg.PageSize),
		slog.String("feed_url", cfg.RecentsURL()),
		slog.String("report_schedule", cfg.ReportSchedule),
		slog.String("timezone", cfg.Timezone))

	channelsCfg, err := config.LoadChannelsConfig(*channelsPath)
	if err != nil {
		logger.Error("failed to load channels configuration", slog.Any("error", err))
		os.Exit(1)
	}
	callback := buildCallback(logger, channelsCfg)

	fetcher := scraper.NewDefaultScraper(cfg.FetchTimeout)
	watchMetrics := metrics.NewWatchMetrics()
	engine := watch.NewEngine(fetcher, callback, watch.Config{
		FeedURL:  cfg.RecentsURL(),
		Interval: cfg.PollInterval,
	}, logger, watchMetrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthServer := worker.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)

	reporter, err := startReportJob(logger, engine, cfg, workerMetrics)
	if err != nil {
		logger.Error("failed to schedule stats report", slog.Any("error", err))
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := healthServer.Start(gctx); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		startMetricsServer(gctx, logger, cfg.MetricsPort)
		return nil
	})

	g.Go(func() error {
		healthServer.SetReady(true)
		engine.Run(gctx)
		healthServer.SetReady(false)
		return nil
	})

	logger.Info("watcher started")
	if err := g.Wait(); err != nil {
		logger.Error("watcher exited with error", slog.Any("error", err))
	}

	reportCtx := reporter.Stop()
	<-reportCtx.Done()

	logger.Info("watcher stopped", statsAttrs(engine.Stats())...)
}

// buildCallback assembles the delivery fan-out from the channel config.
// With every channel disabled the engine still gets a callback, it just
// goes nowhere.
func buildCallback(logger *slog.Logger, cfg *config.ChannelsConfig) watch.Callback {
	var callbacks watch.MultiCallback

	discord := notifier.NewDiscordNotifier(notifier.DiscordConfig{
		Enabled:    cfg.Channels.Discord.Enabled,
		WebhookURL: cfg.Channels.Discord.ResolveURL(),
		Timeout:    cfg.Timeout.Std(),
	})
	if discord.IsEnabled() {
		callbacks = append(callbacks, discord)
		logger.Info("notification channel enabled", slog.String("channel", discord.Name()))
	}

	slack := notifier.NewSlackNotifier(notifier.SlackConfig{
		Enabled:    cfg.Channels.Slack.Enabled,
		WebhookURL: cfg.Channels.Slack.ResolveURL(),
		Timeout:    cfg.Timeout.Std(),
	})
	if slack.IsEnabled() {
		callbacks = append(callbacks, slack)
		logger.Info("notification channel enabled", slog.String("channel", slack.Name()))
	}

	if len(callbacks) == 0 {
		logger.Warn("no notification channels enabled, running in watch-only mode")
		return notifier.NewNoOpNotifier()
	}
	return callbacks
}

// startReportJob schedules the periodic stats report in the configured
// timezone.
func startReportJob(logger *slog.Logger, engine *watch.Engine, cfg *worker.Config, m *worker.Metrics) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.ReportSchedule, func() {
		stats := engine.Stats()
		if stats.Cycles == 0 {
			m.RecordReportRun("failure")
			logger.Warn("stats report: no cycles completed yet")
			return
		}
		m.RecordReportRun("success")
		logger.Info("stats report", statsAttrs(stats)...)
	})
	if err != nil {
		return nil, err
	}
	c.Start()

	logger.Info("stats report scheduled",
		slog.String("schedule", cfg.ReportSchedule),
		slog.String("timezone", cfg.Timezone))
	return c, nil
}

func statsAttrs(stats watch.Stats) []any {
	return []any{
		slog.Uint64("cycles", stats.Cycles),
		slog.Uint64("fetch_errors", stats.FetchErrors),
		slog.Uint64("empty_snapshots", stats.EmptySnapshots),
		slog.Uint64("delivered", stats.Delivered),
	}
}

// initTracing installs a tracer provider so cycle spans are recorded.
// Without an exporter configured the spans stay in-process; an OTLP
// exporter can be added here when a collector is available.
func initTracing(logger *slog.Logger) func() {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("tracer provider shutdown failed", slog.Any("error", err))
		}
	}
}
