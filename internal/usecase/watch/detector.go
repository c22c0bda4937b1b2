package watch

import "vlive-notify/internal/domain/entity"

// NewSince computes which videos in a snapshot are new relative to the
// cursor, the VideoSeq of the most recently observed video.
//
// The snapshot must be ordered freshest-first. The result is ordered
// oldest-first, which is the delivery order. The cursor's own video is never
// included.
//
// When the cursor's video is no longer present in the snapshot (more videos
// were published between cycles than one page can show, or the engine just
// started with cursor 0), the entire snapshot is considered new. Old entries
// can be re-delivered if the upstream rewinds; that is accepted behavior, not
// detected or flagged here. Keeping the page size generous reduces the window.
func NewSince(snapshot []*entity.Video, cursor uint64) []*entity.Video {
	if len(snapshot) == 0 {
		return nil
	}
	if snapshot[0].VideoSeq == cursor {
		return nil
	}

	var fresh []*entity.Video
	for _, v := range snapshot {
		if v.VideoSeq == cursor {
			break
		}
		fresh = append(fresh, v)
	}

	// Snapshot is freshest-first; delivery is oldest-first.
	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}

	return fresh
}
