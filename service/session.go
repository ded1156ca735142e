package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"cashbook/config"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks each caller's active business selection: at most one
// business id per user. Get returns 0 when nothing is selected.
type SessionStore interface {
	GetActiveBusiness(ctx context.Context, userID uint) (uint, error)
	SetActiveBusiness(ctx context.Context, userID uint, businessID uint) error
	ClearActiveBusiness(ctx context.Context, userID uint) error
}

// selection TTL mirrors the JWT lifetime so a stale selection cannot outlive
// the credentials it belongs to.
const selectionTTL = 24 * time.Hour

// RedisSessionStore keeps selections in Redis so they survive restarts and
// are shared across instances.
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore connects a session store to Redis.
func NewRedisSessionStore(cfg *config.RedisConfig) *RedisSessionStore {
	return &RedisSessionStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:active_business:%d", userID)
}

// GetActiveBusiness returns the selected business id, 0 if none.
func (s *RedisSessionStore) GetActiveBusiness(ctx context.Context, userID uint) (uint, error) {
	val, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// SetActiveBusiness stores the selection.
func (s *RedisSessionStore) SetActiveBusiness(ctx context.Context, userID uint, businessID uint) error {
	return s.rdb.Set(ctx, sessionKey(userID), strconv.FormatUint(uint64(businessID), 10), selectionTTL).Err()
}

// ClearActiveBusiness removes the selection (logout).
func (s *RedisSessionStore) ClearActiveBusiness(ctx context.Context, userID uint) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

// MemorySessionStore is the in-process fallback used when Redis is disabled
// (single-instance deployments and tests).
type MemorySessionStore struct {
	mu         sync.RWMutex
	selections map[uint]uint
}

// NewMemorySessionStore creates an empty in-process store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{selections: make(map[uint]uint)}
}

// GetActiveBusiness returns the selected business id, 0 if none.
func (s *MemorySessionStore) GetActiveBusiness(_ context.Context, userID uint) (uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selections[userID], nil
}

// SetActiveBusiness stores the selection.
func (s *MemorySessionStore) SetActiveBusiness(_ context.Context, userID uint, businessID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections[userID] = businessID
	return nil
}

// ClearActiveBusiness removes the selection.
func (s *MemorySessionStore) ClearActiveBusiness(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, userID)
	return nil
}

// NewSessionStore picks the Redis store when enabled, the in-process store
// otherwise.
func NewSessionStore(cfg *config.Config) SessionStore {
	if cfg.Redis.Enabled {
		return NewRedisSessionStore(&cfg.Redis)
	}
	return NewMemorySessionStore()
}
