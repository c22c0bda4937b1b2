package notifier

import (
	"context"

	"vlive-notify/internal/domain/entity"
)

// NoOpNotifier is a no-operation implementation of the watch.Callback
// contract. It is used when all channels are disabled so the engine always
// has a callback to deliver to. This follows the Null Object pattern.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// OnNewVideo does nothing.
func (n *NoOpNotifier) OnNewVideo(ctx context.Context, video *entity.Video) {
	// No-op: intentionally does nothing
}
