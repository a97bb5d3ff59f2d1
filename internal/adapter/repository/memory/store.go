// Package memory implements domain.KeyValueStore in process memory.
package memory

import (
	"context"
	"sync"
)

// Store is an in-memory key-value store. It is safe for concurrent use.
// Data is lost on process exit - for persistence, use the redis store.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get retrieves the stored value for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, found := s.values[key]
	if !found {
		return nil, false, nil
	}

	// Return a copy to avoid external modifications
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, true, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.values[key] = cp
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
