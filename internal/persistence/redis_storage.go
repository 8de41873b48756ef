package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage adapts the go-redis client to fiber.Storage so middleware
// such as the rate limiter can keep its counters in Redis.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage builds a storage adapter. Returns nil when redis is absent
// so callers can pass it straight through to middleware config (a nil
// Storage selects fiber's in-process default).
func NewRedisStorage(r *Redis) *RedisStorage {
	if r == nil || r.Client == nil {
		return nil
	}
	return &RedisStorage{client: r.Client}
}

// Get returns the stored value, or nil when the key is absent or expired.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores a value with the given expiration. Zero expiration persists.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), key, val, exp).Err()
}

// Delete removes a key.
func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Reset flushes the current database.
func (s *RedisStorage) Reset() error {
	return s.client.FlushDB(context.Background()).Err()
}

// Close is a no-op; the underlying client is owned by persistence.Redis.
func (s *RedisStorage) Close() error {
	return nil
}
