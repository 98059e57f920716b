package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/snapshotdev/snapshot-server/errors"
	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
)

// MemoryStore is an in-memory snapshot store with expiration
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
	ttl   time.Duration
}

type memoryItem struct {
	snapshot   *entities.StoredSnapshot
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
		ttl:   ttl,
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired()

	return store
}

// Put stores a snapshot under its ID with the configured expiration.
func (ms *MemoryStore) Put(_ context.Context, snapshot *entities.StoredSnapshot) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[snapshot.ID] = &memoryItem{
		snapshot:   snapshot,
		expireTime: time.Now().Add(ms.ttl),
	}
	return nil
}

// Get retrieves a snapshot by ID.
func (ms *MemoryStore) Get(_ context.Context, id string) (*entities.StoredSnapshot, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[id]
	if !exists || time.Now().After(item.expireTime) {
		return nil, errors.ErrResourceNotFound("snapshot")
	}

	return item.snapshot, nil
}

// List returns all unexpired snapshots, newest first.
func (ms *MemoryStore) List(_ context.Context) ([]*entities.StoredSnapshot, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	now := time.Now()
	snapshots := make([]*entities.StoredSnapshot, 0, len(ms.items))
	for _, item := range ms.items {
		if now.After(item.expireTime) {
			continue
		}
		snapshots = append(snapshots, item.snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// Delete removes a snapshot by ID.
func (ms *MemoryStore) Delete(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, id)
	return nil
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for key, item := range ms.items {
			if now.After(item.expireTime) {
				delete(ms.items, key)
			}
		}
		ms.mu.Unlock()
	}
}
