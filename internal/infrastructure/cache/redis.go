package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/snapshotdev/snapshot-server/errors"
	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
)

const snapshotKeyPrefix = "snapshot:"

// RedisStore is a Redis-backed snapshot store.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, ttl: ttl}
}

// Ping verifies connectivity to Redis.
func (rs *RedisStore) Ping(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return apperrors.ErrCacheFailed("ping", err)
	}
	return nil
}

// Put stores a snapshot as JSON with the configured expiration.
func (rs *RedisStore) Put(ctx context.Context, snapshot *entities.StoredSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.ErrCacheFailed("marshal", err)
	}

	if err := rs.client.Set(ctx, snapshotKeyPrefix+snapshot.ID, payload, rs.ttl).Err(); err != nil {
		return apperrors.ErrCacheFailed("set", err)
	}
	return nil
}

// Get retrieves a snapshot by ID.
func (rs *RedisStore) Get(ctx context.Context, id string) (*entities.StoredSnapshot, error) {
	payload, err := rs.client.Get(ctx, snapshotKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, apperrors.ErrResourceNotFound("snapshot")
	}
	if err != nil {
		return nil, apperrors.ErrCacheFailed("get", err)
	}

	var snapshot entities.StoredSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, apperrors.ErrCacheFailed("unmarshal", err)
	}
	return &snapshot, nil
}

// List returns all stored snapshots by scanning the key prefix.
func (rs *RedisStore) List(ctx context.Context) ([]*entities.StoredSnapshot, error) {
	var snapshots []*entities.StoredSnapshot

	iter := rs.client.Scan(ctx, 0, snapshotKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		payload, err := rs.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, apperrors.ErrCacheFailed("get", err)
		}

		var snapshot entities.StoredSnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, apperrors.ErrCacheFailed("unmarshal", err)
		}
		snapshots = append(snapshots, &snapshot)
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.ErrCacheFailed("scan", err)
	}

	return snapshots, nil
}

// Close releases the Redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
