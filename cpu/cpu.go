// Package cpu holds the processor-level primitives the lock-free structures
// and the executive are built on: a 32-bit compare-and-swap, retry
// combinators over it, count-leading-zeros, and a scoped interrupt mask.
//
// Cores with a load-link/store-conditional pair (Cortex-M3/M4, and any host)
// implement CompareAndSwap without touching the interrupt mask. Cortex-M0/M0+
// have no such pair; there the swap runs with interrupts masked for a handful
// of instructions.
//
// CompareAndSwap does not detect ABA. The callers in this module only make
// narrow updates (toggle one bit, advance a cursor by one), which keeps that
// hazard out of reach; arbitrary read-modify-write users must bring the same
// discipline.
package cpu

import "math/bits"

// Modify loads the word at addr, asks fn for its replacement and swaps it in,
// retrying with a fresh load whenever another context changed the word in
// between. If fn declines (ok == false) the word is left untouched and Modify
// returns the value fn saw.
func Modify(addr *uint32, fn func(old uint32) (new uint32, ok bool)) (old, new uint32, ok bool) {
	for {
		old = Load(addr)
		new, ok = fn(old)
		if !ok {
			return old, old, false
		}
		if CompareAndSwap(addr, old, new) {
			return old, new, true
		}
	}
}

// Update is Modify for functions that always produce a replacement.
func Update(addr *uint32, fn func(old uint32) uint32) (old, new uint32) {
	old, new, _ = Modify(addr, func(v uint32) (uint32, bool) { return fn(v), true })
	return old, new
}

// Increment atomically adds one and returns the new value.
func Increment(addr *uint32) uint32 {
	_, n := Update(addr, func(v uint32) uint32 { return v + 1 })
	return n
}

// IncrementSat is Increment saturating at max. A word already at max is not
// written.
func IncrementSat(addr *uint32, max uint32) uint32 {
	_, n, _ := Modify(addr, func(v uint32) (uint32, bool) {
		if v >= max {
			return v, false
		}
		return v + 1, true
	})
	return n
}

// Decrement atomically subtracts one and returns the new value.
func Decrement(addr *uint32) uint32 {
	_, n := Update(addr, func(v uint32) uint32 { return v - 1 })
	return n
}

// DecrementSat is Decrement saturating at min.
func DecrementSat(addr *uint32, min uint32) uint32 {
	_, n, _ := Modify(addr, func(v uint32) (uint32, bool) {
		if v <= min {
			return v, false
		}
		return v - 1, true
	})
	return n
}

// LeadingZeros returns the number of leading zero bits in x; 32 for x == 0.
func LeadingZeros(x uint32) int {
	return bits.LeadingZeros32(x)
}
