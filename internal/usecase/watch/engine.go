package watch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"vlive-notify/internal/observability/logging"
	"vlive-notify/internal/observability/metrics"
	"vlive-notify/internal/observability/tracing"

	"github.com/google/uuid"
)

// signal is a control message exchanged between the caller and the worker
// goroutine. The channel carries nothing else; an unrecognized value is
// logged and ignored.
type signal int

const (
	sigStart signal = iota
	sigStop
)

// DefaultInterval is the wait between poll cycles when none is configured.
// A few seconds up to ~10 seconds is the recommended range; shorter intervals
// hammer the upstream for little gain.
const DefaultInterval = 10 * time.Second

// Config holds the engine's polling parameters.
type Config struct {
	// FeedURL is the recent-videos page to poll.
	FeedURL string

	// Interval is the wait between poll cycles. Values <= 0 fall back to
	// DefaultInterval.
	Interval time.Duration
}

// Stats is a point-in-time snapshot of the engine's lifetime counters.
type Stats struct {
	Cycles         uint64
	FetchErrors    uint64
	EmptySnapshots uint64
	Delivered      uint64
}

// Engine polls the feed on a single worker goroutine and delivers newly
// published videos to the callback, oldest first, exactly once per video.
//
// The cursor (latest seen VideoSeq) is owned exclusively by the worker
// goroutine; nothing outside it ever reads or writes the field, so it needs
// no synchronization. The engine is single-use: once stopped it cannot be
// restarted.
type Engine struct {
	fetcher  SnapshotFetcher
	callback Callback
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.WatchMetrics

	// latestSeq is the VideoSeq of the freshest video observed so far.
	// Zero means nothing has been seen yet. Worker-goroutine private.
	latestSeq uint64

	cycles         atomic.Uint64
	fetchErrors    atomic.Uint64
	emptySnapshots atomic.Uint64
	delivered      atomic.Uint64
}

// NewEngine creates a polling engine. The logger may be nil, in which case
// slog.Default() is used; metrics may be nil to disable instrumentation.
func NewEngine(fetcher SnapshotFetcher, callback Callback, cfg Config, logger *slog.Logger, m *metrics.WatchMetrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Engine{
		fetcher:  fetcher,
		callback: callback,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
	}
}

// Stats returns a snapshot of the engine's lifetime counters. Safe to call
// from any goroutine while the engine runs.
func (e *Engine) Stats() Stats {
	return Stats{
		Cycles:         e.cycles.Load(),
		FetchErrors:    e.fetchErrors.Load(),
		EmptySnapshots: e.emptySnapshots.Load(),
		Delivered:      e.delivered.Load(),
	}
}

// RunAsync spawns the worker goroutine and returns the handle used to stop
// it. The worker waits for the start signal (sent here, before returning)
// and then cycles until stopped.
func (e *Engine) RunAsync() *Stopper {
	ctrl := make(chan signal, 1)
	done := make(chan struct{})

	go e.loop(ctrl, done)

	// Buffered send: the worker picks it up as its first action.
	ctrl <- sigStart

	return &Stopper{ctrl: ctrl, done: done}
}

// Run starts the engine and blocks until the context is canceled and the
// worker has exited. It is a convenience wrapper over RunAsync for callers
// that want a fully synchronous entry point.
func (e *Engine) Run(ctx context.Context) {
	stopper := e.RunAsync()
	go func() {
		<-ctx.Done()
		stopper.Stop()
	}()
	stopper.Wait()
}

// loop is the worker goroutine body: consume the start signal, then cycle
// until a stop signal arrives. Stop is only honored at the top of a cycle,
// never mid-fetch.
func (e *Engine) loop(ctrl <-chan signal, done chan<- struct{}) {
	defer close(done)

	switch sig := <-ctrl; sig {
	case sigStart:
		e.logger.Info("watch loop started",
			slog.String("feed_url", e.cfg.FeedURL),
			slog.Duration("interval", e.cfg.Interval))
	case sigStop:
		e.logger.Info("watch loop stopped before first cycle")
		return
	default:
		e.logger.Warn("unrecognized control signal, ignoring", slog.Int("signal", int(sig)))
	}

	for {
		select {
		case sig := <-ctrl:
			if sig == sigStop {
				e.logger.Info("watch loop stopping")
				return
			}
			e.logger.Warn("unrecognized control signal, ignoring", slog.Int("signal", int(sig)))
		default:
		}

		e.runCycle(context.Background())

		time.Sleep(e.cfg.Interval)
	}
}

// runCycle performs one fetch-detect-deliver pass. Every failure mode is
// recovered locally: a failed fetch or empty snapshot skips the cycle and
// leaves the cursor untouched.
func (e *Engine) runCycle(ctx context.Context) {
	ctx, span := tracing.GetTracer().Start(ctx, "watch.cycle")
	defer span.End()

	logger := logging.WithCycleID(e.logger, uuid.NewString())
	// Callbacks and the fetcher pick the cycle logger up via
	// logging.FromContext, so their failure logs carry the cycle_id.
	ctx = logging.WithLogger(ctx, logger)
	start := time.Now()
	e.cycles.Add(1)

	snapshot, err := e.fetcher.Fetch(ctx, e.cfg.FeedURL)
	if err != nil {
		e.fetchErrors.Add(1)
		if e.metrics != nil {
			e.metrics.RecordCycle(metrics.CycleStatusFetchError, time.Since(start))
		}
		logger.Warn("feed fetch failed, skipping cycle", slog.Any("error", err))
		return
	}

	if len(snapshot) == 0 {
		e.emptySnapshots.Add(1)
		if e.metrics != nil {
			e.metrics.RecordCycle(metrics.CycleStatusEmpty, time.Since(start))
		}
		logger.Warn("skipping cycle", slog.Any("error", ErrEmptySnapshot))
		return
	}

	fresh := NewSince(snapshot, e.latestSeq)
	for _, v := range fresh {
		e.callback.OnNewVideo(ctx, v)
		e.delivered.Add(1)
	}

	// The cursor always advances to the freshest entry, even when nothing
	// new was delivered.
	e.latestSeq = snapshot[0].VideoSeq

	if e.metrics != nil {
		e.metrics.RecordCycle(metrics.CycleStatusSuccess, time.Since(start))
		e.metrics.RecordDelivered(len(fresh))
	}
	logger.Info("cycle completed",
		slog.Int("snapshot_size", len(snapshot)),
		slog.Int("new_videos", len(fresh)),
		slog.Uint64("cursor", e.latestSeq),
		slog.Duration("duration", time.Since(start)))
}

// Stopper requests shutdown of a running engine. It is single-use: the first
// Stop call delivers the stop signal, later calls are no-ops. Stopping an
// engine whose worker has already exited is harmless.
type Stopper struct {
	ctrl chan<- signal
	done <-chan struct{}
	once sync.Once
}

// Stop requests that the worker exit at the top of its next cycle. It never
// blocks: the control channel is buffered and a dead worker is detected via
// the done channel.
func (s *Stopper) Stop() {
	s.once.Do(func() {
		select {
		case s.ctrl <- sigStop:
		case <-s.done:
			// Worker already exited; nothing to signal.
		}
	})
}

// Done returns a channel that is closed when the worker goroutine exits.
func (s *Stopper) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the worker goroutine has exited.
func (s *Stopper) Wait() {
	<-s.done
}
