// FILE: src/internal/client/queue.go
package client

import (
	"sync"

	"instaroid/src/internal/core"
)

// Queue holds entries awaiting delivery. Drain is atomic, so an entry
// captured by one flush is never seen by a concurrent one.
type Queue struct {
	mu      sync.Mutex
	entries []core.LogEntry
	max     int // 0 = unbounded
}

// NewQueue creates a queue capped at max entries, 0 disables the cap
func NewQueue(max int) *Queue {
	return &Queue{max: max}
}

// Push appends an entry and returns the resulting length and the number of
// oldest entries dropped to stay within the cap.
func (q *Queue) Push(entry core.LogEntry) (int, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.entries = append(q.entries, entry)
	dropped := q.trimLocked()
	return len(q.entries), dropped
}

// Drain removes and returns everything queued
func (q *Queue) Drain() []core.LogEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return nil
	}
	batch := q.entries
	q.entries = nil
	return batch
}

// Requeue puts a failed batch back at the front, ahead of anything queued
// since it was drained. Returns the number of oldest entries dropped.
func (q *Queue) Requeue(batch []core.LogEntry) int {
	if len(batch) == 0 {
		return 0
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	merged := make([]core.LogEntry, 0, len(batch)+len(q.entries))
	merged = append(merged, batch...)
	merged = append(merged, q.entries...)
	q.entries = merged
	return q.trimLocked()
}

func (q *Queue) trimLocked() int {
	if q.max <= 0 || len(q.entries) <= q.max {
		return 0
	}
	dropped := len(q.entries) - q.max
	q.entries = append([]core.LogEntry(nil), q.entries[dropped:]...)
	return dropped
}

// Len returns the number of queued entries
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot returns a copy of the queued entries, oldest first
func (q *Queue) Snapshot() []core.LogEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]core.LogEntry, len(q.entries))
	copy(out, q.entries)
	return out
}
