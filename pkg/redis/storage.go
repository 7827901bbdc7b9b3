package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage persists the simulated role id in Redis.
// It satisfies rolestore.Storage.
type Storage struct {
	db     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStorage wraps a connected client with no key prefix and no expiration.
func NewStorage(client redis.UniversalClient) *Storage {
	return &Storage{db: client}
}

// NewStorageWithConfig applies KeyPrefix and TTL from cfg.
func NewStorageWithConfig(client redis.UniversalClient, cfg Config) *Storage {
	return &Storage{
		db:     client,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTL,
	}
}

// Get returns an empty string for missing keys (redis.Nil becomes nil).
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	val, err := s.db.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Join(ErrStorageFailed, err)
	}
	return val, nil
}

// Set stores value under key with the configured TTL. Zero TTL means no expiration.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.db.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.db.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

// Close terminates the Redis connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Conn returns the underlying Redis client.
func (s *Storage) Conn() redis.UniversalClient {
	return s.db
}
