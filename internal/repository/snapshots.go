package repository

import (
	"context"
	"encoding/json"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/redis/go-redis/v9"

	"opsdesk/internal/sync"
)

// SnapshotStore persists the last-known-good snapshot per scope, so a
// restarted terminal can render immediately instead of waiting out the first
// poll cycle. The store is display cache only, never a source of truth.
type SnapshotStore interface {
	Save(ctx context.Context, snap *sync.Snapshot) error
	Load(ctx context.Context, scope string) (*sync.Snapshot, error)
}

// redisTTL bounds how stale a cached snapshot may be served after restart.
const redisTTL = 12 * time.Hour

// RedisSnapshotStore keeps snapshots in Redis, one key per scope.
type RedisSnapshotStore struct {
	client *redis.Client
}

func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

func snapshotKey(scope string) string {
	return fmt.Sprintf("opsdesk:snapshot:%s", scope)
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snap *sync.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(snap.Scope), data, redisTTL).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Scope, err)
	}
	return nil
}

// Load returns the cached snapshot for scope, or (nil, nil) when none exists.
func (s *RedisSnapshotStore) Load(ctx context.Context, scope string) (*sync.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(scope)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", scope, err)
	}
	var snap sync.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", scope, err)
	}
	return &snap, nil
}

// MemorySnapshotStore is the in-process fallback used when Redis is not
// configured or unreachable at startup.
type MemorySnapshotStore struct {
	mu    stdsync.RWMutex
	snaps map[string]*sync.Snapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snaps: make(map[string]*sync.Snapshot)}
}

func (s *MemorySnapshotStore) Save(_ context.Context, snap *sync.Snapshot) error {
	s.mu.Lock()
	s.snaps[snap.Scope] = snap
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshotStore) Load(_ context.Context, scope string) (*sync.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snaps[scope], nil
}
