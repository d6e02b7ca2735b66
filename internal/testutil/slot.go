package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/todos/internal/store"
)

// SpySlot is an in-memory key-value slot that records every write.
//
// Tests use it to assert that an operation did or did not persist, and to
// inject read or write failures.
type SpySlot struct {
	mu     sync.Mutex
	values map[string][]byte
	writes []string // keys, in write order

	// Error injection for testing
	GetErr error
	PutErr error
}

// NewSpySlot creates an empty SpySlot.
func NewSpySlot() *SpySlot {
	return &SpySlot{values: make(map[string][]byte)}
}

// Seed stores a raw value without counting it as a write.
func (s *SpySlot) Seed(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
}

// Get returns the value under key or an error wrapping store.ErrNotFound.
func (s *SpySlot) Get(ctx context.Context, key string) ([]byte, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("get slot %q: %w", key, store.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the value under key and records the write.
// A failed write (PutErr) is not recorded.
func (s *SpySlot) Put(ctx context.Context, key string, value []byte) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	s.writes = append(s.writes, key)
	return nil
}

// Writes returns the number of successful writes.
func (s *SpySlot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

// Value returns the raw stored value under key.
func (s *SpySlot) Value(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}
