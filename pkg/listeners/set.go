// Package listeners provides a copy-on-write callback registry.
//
// Dispatchers iterate a Snapshot, so callbacks may add or remove
// listeners (including themselves) while a dispatch is in flight.
// Changes become visible to the next Snapshot, never the current one.
package listeners

import (
	"sync"
	"sync/atomic"
)

type entry[T any] struct {
	id uint64
	fn T
}

// Set is a copy-on-write list of callbacks. The zero value is ready to use.
type Set[T any] struct {
	mu      sync.Mutex // serializes writers
	nextID  uint64
	entries atomic.Pointer[[]entry[T]]
}

// Add registers fn and returns a function that removes exactly that registration.
// The remover is idempotent.
func (s *Set[T]) Add(fn T) (remove func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	cur := s.load()
	next := make([]entry[T], len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, entry[T]{id: id, fn: fn})
	s.entries.Store(&next)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Set[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.load()
	next := make([]entry[T], 0, len(cur))
	for _, e := range cur {
		if e.id != id {
			next = append(next, e)
		}
	}
	s.entries.Store(&next)
}

// Snapshot returns the callbacks registered at the time of the call, in registration order.
func (s *Set[T]) Snapshot() []T {
	cur := s.load()
	out := make([]T, len(cur))
	for i, e := range cur {
		out[i] = e.fn
	}
	return out
}

// Len returns the number of registered callbacks.
func (s *Set[T]) Len() int {
	return len(s.load())
}

func (s *Set[T]) load() []entry[T] {
	if p := s.entries.Load(); p != nil {
		return *p
	}
	return nil
}
