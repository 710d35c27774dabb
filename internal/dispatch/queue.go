package dispatch

import (
	"context"
	"sync"
)

// DefaultQueueCapacity holds about two seconds of frames at the active rate.
const DefaultQueueCapacity = 32

// Queue is a bounded FIFO of samples between the capture goroutine and the
// dispatch goroutine. When full, it makes room by dropping the oldest sample
// that cannot change dispatch state: a confident sample whose neighbours on
// both sides are confident samples of the same gesture. Such a sample carries
// only motion, so dropping it never loses a key tap, press or release. If
// nothing can be dropped, Push blocks.
type Queue struct {
	mu        sync.Mutex
	items     []Sample
	capacity  int
	threshold float64
	last      Sample
	hasLast   bool
	closed    bool
	dropped   uint64

	notEmpty chan struct{}
	notFull  chan struct{}
	done     chan struct{}
}

// NewQueue creates a queue holding at most capacity samples. threshold must
// match the engine's confidence threshold.
func NewQueue(capacity int, threshold float64) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		items:     make([]Sample, 0, capacity),
		capacity:  capacity,
		threshold: threshold,
		notEmpty:  make(chan struct{}, 1),
		notFull:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Push appends s, blocking while the queue is full and nothing can be dropped.
func (q *Queue) Push(ctx context.Context, s Sample) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrQueueClosed
		}
		if len(q.items) < q.capacity || q.evictLocked(s) {
			q.items = append(q.items, s)
			spare := len(q.items) < q.capacity
			q.mu.Unlock()

			signal(q.notEmpty)
			if spare {
				signal(q.notFull)
			}
			return nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return ErrQueueClosed
		case <-q.notFull:
		}
	}
}

// Pop removes and returns the oldest sample, blocking until one is available.
// It returns ErrQueueClosed once the queue is closed, even if samples remain.
func (q *Queue) Pop(ctx context.Context) (Sample, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Sample{}, err
		}
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return Sample{}, ErrQueueClosed
		}
		if len(q.items) > 0 {
			s := q.items[0]
			q.items[0] = Sample{}
			q.items = q.items[1:]
			q.last, q.hasLast = s, true
			more := len(q.items) > 0
			q.mu.Unlock()

			signal(q.notFull)
			if more {
				signal(q.notEmpty)
			}
			return s, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Sample{}, ctx.Err()
		case <-q.done:
			return Sample{}, ErrQueueClosed
		case <-q.notEmpty:
		}
	}
}

// Close stops the queue from accepting or returning samples. Pending samples
// can be retrieved with Drain.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Drain removes and returns all pending samples.
func (q *Queue) Drain() []Sample {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = make([]Sample, 0, q.capacity)
	return out
}

// Len returns the number of pending samples.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many samples have been dropped to relieve backpressure.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// evictLocked drops the oldest motion-only sample, treating incoming as the
// successor of the newest queued sample. Must be called with q.mu held.
func (q *Queue) evictLocked(incoming Sample) bool {
	for i := range q.items {
		var prev Sample
		switch {
		case i > 0:
			prev = q.items[i-1]
		case q.hasLast:
			prev = q.last
		default:
			continue
		}

		next := incoming
		if i+1 < len(q.items) {
			next = q.items[i+1]
		}

		cur := q.items[i]
		if q.confident(prev) && q.confident(cur) && q.confident(next) &&
			prev.Label == cur.Label && next.Label == cur.Label {
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = Sample{}
			q.items = q.items[:len(q.items)-1]
			q.dropped++
			return true
		}
	}
	return false
}

func (q *Queue) confident(s Sample) bool {
	return !s.Lost() && s.Confidence >= q.threshold
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
