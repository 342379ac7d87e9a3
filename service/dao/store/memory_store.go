package store

import (
	"context"
	"sync"

	"github.com/viant/opsgate/service/dao"
)

// MemoryStore is a generic in-memory keyed store. It keeps entities of type
// *T mapped by a comparable key K obtained from the supplied keySelector.
//
// Load returns the stored pointer; callers treat loaded records as read-only
// and publish changes through Save or CompareAndSwap with a fresh copy.
// CompareAndSwap compares by pointer identity, which makes lost updates
// detectable without version counters: a stale expected pointer means another
// writer got there first.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
}

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Load returns a record by key, or nil when absent.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns all stored records.
func (s *MemoryStore[K, T]) List(_ context.Context) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, v)
	}
	return out, nil
}

// CompareAndSwap replaces the record under key with replacement only when the
// currently stored pointer is identical to expected. It returns true on a
// successful swap. A nil expected swaps only when no record exists yet.
func (s *MemoryStore[K, T]) CompareAndSwap(_ context.Context, key K, expected, replacement *T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.records[key]
	if !ok {
		if expected != nil {
			return false, nil
		}
	} else if current != expected {
		return false, nil
	}
	if replacement == nil {
		delete(s.records, key)
		return true, nil
	}
	s.records[key] = replacement
	return true, nil
}
