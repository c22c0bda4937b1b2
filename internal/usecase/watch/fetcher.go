package watch

import (
	"context"

	"vlive-notify/internal/domain/entity"
)

// SnapshotFetcher fetches one snapshot of the recent-videos feed.
//
// A snapshot is ordered freshest-first: index 0 is the most recent
// publication. Any returned error is treated as transient by the engine; the
// cycle is skipped and the next one proceeds normally. An empty snapshot with
// a nil error is valid and also skips novelty detection for the cycle.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, url string) ([]*entity.Video, error)
}
