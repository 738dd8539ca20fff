// Package lockless provides a fixed-capacity ring queue that interrupt
// handlers and foreground code can share without locks.
//
// Producers race each other on the head cursor and consumers on the tail
// cursor, both through cpu.CompareAndSwap. Producers and consumers meet at the
// per-slot valid bit: a slot's value is stored before its bit is published,
// and read before its bit is released.
package lockless

import (
	"math"

	"ember/bitvec"
	"ember/cpu"
	"ember/fault"
)

// Queue is a multi-producer multi-consumer FIFO of capacity values.
//
// Capacity is arbitrary. The ring holds one slot more than the capacity so
// that a full ring never lets head catch up with an unconsumed or
// unpublished slot.
//
// head and tail are free-running counters that wrap at lim, the largest
// multiple of the slot count that fits in 32 bits; the slot is the counter
// modulo the slot count. A context stalled between its check and its swap
// therefore fails the swap once any other context has moved the cursor,
// however many laps of the ring that took.
type Queue[T any] struct {
	head  uint32 // counter of the next free slot
	tail  uint32 // counter of the next occupied slot
	n     uint32 // ring slots, capacity+1
	lim   uint32 // counter modulus
	slots []T
	valid *bitvec.Vector
}

// New returns an empty queue that accepts capacity values.
func New[T any](capacity int) *Queue[T] {
	fault.Require(capacity > 0 && capacity < 1<<31, fault.ErrCapacity, "capacity %d", capacity)
	n := uint32(capacity + 1)
	return &Queue[T]{
		n:     n,
		lim:   math.MaxUint32 / n * n,
		slots: make([]T, n),
		valid: bitvec.New(int(n)),
	}
}

func (q *Queue[T]) advance(c uint32) uint32 {
	c++
	if c == q.lim {
		c = 0
	}
	return c
}

func (q *Queue[T]) slot(c uint32) int { return int(c % q.n) }

// used is the number of slots claimed by producers and not yet claimed by
// consumers. head must still be current when tail is read.
func (q *Queue[T]) used(head, tail uint32) uint32 {
	if head >= tail {
		return head - tail
	}
	return q.lim - tail + head
}

// Cap returns the number of values the queue accepts when empty.
func (q *Queue[T]) Cap() int { return int(q.n) - 1 }

// Len returns the number of published values. It is a snapshot and may be
// stale by the time it returns.
func (q *Queue[T]) Len() int {
	n := 0
	for i := 0; i < int(q.n); i++ {
		if q.valid.Test(i) {
			n++
		}
	}
	return n
}

// Put appends v. It returns false, leaving the queue untouched, when the
// queue is full.
func (q *Queue[T]) Put(v T) bool {
	var head uint32
	for {
		head = cpu.Load(&q.head)
		tail := cpu.Load(&q.tail)
		next := q.advance(head)
		full := q.used(head, tail) >= q.n-1 || q.valid.Test(q.slot(next))
		if cpu.Load(&q.head) != head {
			// Lost a race before the checks; they may not hold.
			continue
		}
		if full {
			return false
		}
		if cpu.CompareAndSwap(&q.head, head, next) {
			break
		}
	}
	i := q.slot(head)
	q.slots[i] = v
	q.valid.Set(i)
	return true
}

// Get removes and returns the oldest value. It returns false when the queue
// is empty.
func (q *Queue[T]) Get() (T, bool) {
	var zero T
	var tail uint32
	for {
		tail = cpu.Load(&q.tail)
		ready := q.valid.Test(q.slot(tail))
		if cpu.Load(&q.tail) != tail {
			continue
		}
		if !ready {
			return zero, false
		}
		if cpu.CompareAndSwap(&q.tail, tail, q.advance(tail)) {
			break
		}
	}
	i := q.slot(tail)
	v := q.slots[i]
	q.slots[i] = zero
	q.valid.Clear(i)
	return v, true
}
