package queue

import (
	"sync"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/fix"
)

// Queue is the bounded hand-off between the ingestion goroutine and the
// persistence consumer. Push never blocks: when the queue is full the
// oldest unconsumed fix is evicted, favoring freshness over completeness.
// Pop blocks until a fix is available or the queue is closed and drained.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []*fix.Fix
	cap     int
	dropped uint64
	closed  bool
}

// New creates a queue with the given capacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 100
	}
	q := &Queue{cap: capacity, items: make([]*fix.Fix, 0, capacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a fix without ever blocking the caller. On a full queue
// the oldest entry is dropped and the drop counter incremented. Pushes
// after Close are discarded.
func (q *Queue) Push(f *fix.Fix) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	if len(q.items) == q.cap {
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, f)
	q.cond.Signal()
}

// Pop blocks until a fix is available and returns it. After Close it keeps
// returning remaining fixes until the queue is drained, then returns
// ok=false as the end-of-stream indication.
func (q *Queue) Pop() (*fix.Fix, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	f := q.items[0]
	q.items = q.items[1:]
	return f, true
}

// Close stops accepting new fixes and unblocks the consumer once the
// remaining items are drained.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Len returns the number of queued fixes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns the number of fixes evicted by overflow.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
