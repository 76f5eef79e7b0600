// Package session keeps per-browser state in memory under random ids.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

// Store maps uuid ids to values and forgets values idle for longer than ttl.
type Store[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry[T]
}

// NewStore returns an empty store. A ttl of zero never expires.
func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry[T]),
	}
}

// Create stores value under a fresh id.
func (s *Store[T]) Create(value T) string {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry[T]{value: value, lastSeen: s.now()}
	return id
}

// Get returns the value for id and marks it as used.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		delete(s.entries, id)
		var zero T
		return zero, false
	}
	e.lastSeen = s.now()
	return e.value, true
}

// GetOrCreate returns the value for id, creating one with mk when id is
// unknown or expired. The returned id is the one the value is stored under.
func (s *Store[T]) GetOrCreate(id string, mk func() T) (string, T) {
	if v, ok := s.Get(id); ok {
		return id, v
	}
	v := mk()
	return s.Create(v), v
}

// Delete forgets id.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live entries.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store[T]) expired(e *entry[T]) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
