package primary

import (
	"context"
	"time"
)

// Snapshot is the aggregate view recomputed after every committed mutation.
type Snapshot struct {
	PendingCount int
	Today        []*Request
	RefreshedAt  time.Time
}

// SnapshotService is the primary port for the aggregate view cache and its
// fanout pipeline.
type SnapshotService interface {
	// Refresh recomputes the aggregate views from the request store, caches
	// them, and publishes them to the appointments topic. Publish and cache
	// failures are logged, never returned to the mutation path.
	Refresh(ctx context.Context) (*Snapshot, error)

	// PendingCount serves the pending request count from cache when fresh,
	// recomputing on miss.
	PendingCount(ctx context.Context) (int, error)

	// TodayBoard serves today's appointments (ordered by time, payload
	// attached) from cache when fresh, recomputing on miss.
	TodayBoard(ctx context.Context) ([]*Request, error)
}
