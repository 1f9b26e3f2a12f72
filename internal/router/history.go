package router

import "sync"

// Ring is a fixed-capacity append-only history. Once full, appends overwrite
// the oldest entry. Safe for concurrent use.
type Ring[T any] struct {
	mu   sync.Mutex
	buf  []T
	head int // index of the oldest entry
	size int
}

// NewRing returns a ring holding at most capacity entries. Capacity must be
// positive.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Append records v, evicting the oldest entry if the ring is full.
func (r *Ring[T]) Append(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// Len returns the number of retained entries.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Snapshot returns all retained entries, oldest first.
func (r *Ring[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Recent returns the newest entries, oldest first, at most limit of them.
func (r *Ring[T]) Recent(limit int) []T {
	all := r.Snapshot()
	if limit <= 0 || limit >= len(all) {
		return all
	}
	return all[len(all)-limit:]
}

// Clear drops all retained entries and returns how many were dropped.
func (r *Ring[T]) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.size
	r.size = 0
	r.head = 0
	return n
}
