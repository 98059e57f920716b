// Package cache provides the snapshot store backends: an in-memory store
// with expiration and a Redis-backed store.
package cache

import (
	"context"

	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
)

// SnapshotStore keeps generated snapshots for later retrieval. Entries
// expire after the configured TTL.
type SnapshotStore interface {
	Put(ctx context.Context, snapshot *entities.StoredSnapshot) error
	Get(ctx context.Context, id string) (*entities.StoredSnapshot, error)
	List(ctx context.Context) ([]*entities.StoredSnapshot, error)
}
