// Package lockfree provides lock-free data structures for high-performance concurrent processing
package lockfree

import (
	"runtime"
	"sync/atomic"
)

// Ring is a bounded lock-free multi-producer multi-consumer queue.
//
// Every slot carries a sequence number that tells producers and consumers
// whose turn it is, so the slot value itself needs no atomic access. Unlike a
// masked ring the capacity is exact: a Ring created with capacity 3 holds at
// most 3 items.
//
// Under contention Enqueue may report full (and Dequeue empty) while another
// goroutine is halfway through the opposite operation on the same slot.
type Ring[T any] struct {
	buffer   []slot[T]
	capacity uint64

	// Separate enqueue and dequeue indices on different cache lines
	enqueuePos atomic.Uint64
	_padding1  [7]uint64 //nolint:unused

	dequeuePos atomic.Uint64
	_padding2  [7]uint64 //nolint:unused
}

type slot[T any] struct {
	sequence atomic.Uint64
	value    T
}

// NewRing creates a ring holding at most capacity items. Capacity below 1
// is treated as 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	r := &Ring[T]{
		buffer:   make([]slot[T], capacity),
		capacity: uint64(capacity),
	}
	for i := range r.buffer {
		r.buffer[i].sequence.Store(uint64(i))
	}
	return r
}

// Enqueue adds an item. Returns false if the ring is full.
func (r *Ring[T]) Enqueue(item T) bool {
	for {
		pos := r.enqueuePos.Load()
		s := &r.buffer[pos%r.capacity]
		seq := s.sequence.Load()

		diff := int64(seq) - int64(pos)

		if diff == 0 {
			if r.enqueuePos.CompareAndSwap(pos, pos+1) {
				s.value = item
				s.sequence.Store(pos + 1)
				return true
			}
		} else if diff < 0 {
			return false
		}

		// Lost the race for this slot, retry
		runtime.Gosched()
	}
}

// Dequeue removes the oldest item. Returns false if the ring is empty.
func (r *Ring[T]) Dequeue() (T, bool) {
	var zero T
	for {
		pos := r.dequeuePos.Load()
		s := &r.buffer[pos%r.capacity]
		seq := s.sequence.Load()

		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			if r.dequeuePos.CompareAndSwap(pos, pos+1) {
				item := s.value
				s.value = zero
				s.sequence.Store(pos + r.capacity)
				return item, true
			}
		} else if diff < 0 {
			return zero, false
		}

		runtime.Gosched()
	}
}

// Len returns the number of queued items. It is an approximation while
// other goroutines are enqueueing or dequeueing.
func (r *Ring[T]) Len() int {
	enq := r.enqueuePos.Load()
	deq := r.dequeuePos.Load()
	if enq <= deq {
		return 0
	}
	n := enq - deq
	if n > r.capacity {
		n = r.capacity
	}
	return int(n)
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return int(r.capacity)
}
