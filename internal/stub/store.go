package stub

import "sync"

// memStore is a mutex-guarded, append-only collection with auto-assigned
// integer ids. The stamp hook runs under the lock and fills server-owned
// fields (id, timestamps, defaulted status) before the row is kept.
type memStore[T any] struct {
	mu    sync.Mutex
	rows  []T
	next  int
	stamp func(row T, id int, now string) T
}

func newMemStore[T any](stamp func(T, int, string) T) *memStore[T] {
	return &memStore[T]{next: 1, stamp: stamp}
}

// Add stamps and stores a row, returning the value as stored.
func (s *memStore[T]) Add(row T, now string) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	row = s.stamp(row, s.next, now)
	s.next++
	s.rows = append(s.rows, row)
	return row
}

// List returns a copy of the rows in insertion order.
func (s *memStore[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *memStore[T]) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
