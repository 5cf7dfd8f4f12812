// FILE: src/internal/sink/ring.go
package sink

import (
	"sync"

	"instaroid/src/internal/core"
)

// Ring keeps the most recent entries up to a fixed capacity.
// Appending to a full ring overwrites the oldest entry.
type Ring struct {
	mu      sync.RWMutex
	buf     []core.LogEntry
	head    int // index of the oldest entry
	size    int
	evicted uint64
}

// NewRing builds a ring, non-positive capacities fall back to 1000
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Ring{buf: make([]core.LogEntry, capacity)}
}

// Append stores an entry and reports whether the oldest was evicted
func (r *Ring) Append(entry core.LogEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = entry
		r.size++
		return false
	}

	r.buf[r.head] = entry
	r.head = (r.head + 1) % len(r.buf)
	r.evicted++
	return true
}

// Snapshot returns a copy of the retained entries, oldest first
func (r *Ring) Snapshot() []core.LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.LogEntry, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Clear empties the ring and returns how many entries were removed
func (r *Ring) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.size
	for i := range r.buf {
		r.buf[i] = core.LogEntry{}
	}
	r.head = 0
	r.size = 0
	return n
}

// Len returns the number of retained entries
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Cap returns the fixed capacity
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Evicted returns the total number of entries overwritten since creation
func (r *Ring) Evicted() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.evicted
}
