// Package flagstore persists the previously-connected marker that drives
// silent wallet restore on startup.
package flagstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectedKey = "walletbridge:connected"

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// RedisStore keeps the flag in Redis so it survives restarts.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg Config) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Set records that a wallet has been connected.
func (s *RedisStore) Set(ctx context.Context) error {
	if err := s.rdb.Set(ctx, connectedKey, "true", 0).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}

// Clear erases the marker.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, connectedKey).Err(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	return nil
}

// WasConnected reports whether a wallet was connected before.
func (s *RedisStore) WasConnected(ctx context.Context) (bool, error) {
	val, err := s.rdb.Get(ctx, connectedKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get failed: %w", err)
	}
	return val == "true", nil
}

// MemoryStore is an in-process fallback used when no Redis is configured.
// The flag does not survive restarts.
type MemoryStore struct {
	mu  sync.Mutex
	set bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = true
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = false
	return nil
}

func (s *MemoryStore) WasConnected(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set, nil
}
