// Package watch implements the polling engine at the heart of the notifier.
// It owns the poll cadence, the start/stop control channel, novelty detection
// against the last-seen video sequence, and ordered delivery of new videos to
// a caller-supplied callback.
package watch

import (
	"context"

	"vlive-notify/internal/domain/entity"
)

// Callback receives newly discovered videos.
//
// The engine invokes OnNewVideo synchronously from its single worker
// goroutine, once per new video, oldest first. At most one invocation is in
// flight at any time; implementations that need to do heavy work should
// offload it themselves. Implementations must tolerate being called from a
// goroutine other than the one that constructed them.
type Callback interface {
	OnNewVideo(ctx context.Context, video *entity.Video)
}

// CallbackFunc adapts a plain function to the Callback interface.
type CallbackFunc func(ctx context.Context, video *entity.Video)

// OnNewVideo implements Callback.
func (f CallbackFunc) OnNewVideo(ctx context.Context, video *entity.Video) {
	f(ctx, video)
}

// MultiCallback fans a notification out to several callbacks in order.
// Delivery stays sequential so the single-in-flight guarantee holds across
// all registered sinks.
type MultiCallback []Callback

// OnNewVideo implements Callback.
func (m MultiCallback) OnNewVideo(ctx context.Context, video *entity.Video) {
	for _, cb := range m {
		cb.OnNewVideo(ctx, video)
	}
}
