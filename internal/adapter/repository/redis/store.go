// Package redis implements domain.KeyValueStore on a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/realgoal/realgoal-backend/internal/domain"
)

// Store wraps a Redis client behind the key-value contract the persistence
// binding consumes. Collections are stored as whole JSON documents under
// their namespaced keys.
type Store struct {
	client *goredis.Client
}

// NewStore connects to the Redis server at addr and verifies the connection.
// addr should be in the format "host:port", e.g. "localhost:6379".
func NewStore(ctx context.Context, addr string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return &Store{client: client}, nil
}

// Get retrieves the stored value for key. A missing key is not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis get %s: %v", domain.ErrPersistence, key, err)
	}
	return raw, true, nil
}

// Set stores value under key with no expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", domain.ErrPersistence, key, err)
	}
	return nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
