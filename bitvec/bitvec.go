// Package bitvec is an arbitrary-length set of bits whose single-bit Set and
// Clear are lock-free.
//
// Bit i lives in word i/32 at position i%32; words are ordered little-endian
// so bits 0-31 are in words[0]. Bits past Len in the last word are
// don't-care.
//
// Only Set and Clear are atomic, and only for the word holding the bit.
// SetRange, ClearRange and the word-wise And, Or, Not and Copy are sequences
// of independent operations and can observe or produce torn results when
// raced against concurrent single-bit writers.
package bitvec

import (
	"strings"

	"ember/cpu"
	"ember/fault"
)

// None is returned by FindFirstSet when no bit is set.
const None = -1

const wordBits = 32

// Vector is a fixed-size bit set.
type Vector struct {
	size  int
	words []uint32
}

// Words returns the number of 32-bit words needed to hold size bits.
func Words(size int) int {
	return (size + wordBits - 1) / wordBits
}

// New returns a zeroed vector of size bits with its own storage.
func New(size int) *Vector {
	fault.Require(size > 0, fault.ErrStorage, "size %d", size)
	return &Vector{size: size, words: make([]uint32, Words(size))}
}

// Over returns a vector of size bits backed by caller-owned words. The
// vector lives as long as the storage does.
func Over(size int, words []uint32) *Vector {
	fault.Require(size > 0 && len(words) >= Words(size), fault.ErrStorage,
		"%d bits need %d words, have %d", size, Words(size), len(words))
	return &Vector{size: size, words: words[:Words(size)]}
}

// FromUint64 returns a vector of up to 64 bits initialized from value.
func FromUint64(size int, value uint64) *Vector {
	fault.Require(size > 0 && size <= 64, fault.ErrStorage, "constant vector of %d bits", size)
	v := New(size)
	v.words[0] = uint32(value)
	if len(v.words) > 1 {
		v.words[1] = uint32(value >> 32)
	}
	return v
}

// Len returns the number of bits in v.
func (v *Vector) Len() int { return v.size }

func (v *Vector) check(pos int) {
	fault.Require(pos >= 0 && pos < v.size, fault.ErrBitRange, "bit %d of %d", pos, v.size)
}

// Set sets bit pos and returns its previous value.
func (v *Vector) Set(pos int) bool {
	v.check(pos)
	mask := uint32(1) << (pos % wordBits)
	old, _ := cpu.Update(&v.words[pos/wordBits], func(w uint32) uint32 { return w | mask })
	return old&mask != 0
}

// Clear clears bit pos and returns its previous value.
func (v *Vector) Clear(pos int) bool {
	v.check(pos)
	mask := uint32(1) << (pos % wordBits)
	old, _ := cpu.Update(&v.words[pos/wordBits], func(w uint32) uint32 { return w &^ mask })
	return old&mask != 0
}

// Test reports bit pos. It is a single read and may race a writer, in which
// case it returns either the before or the after value.
func (v *Vector) Test(pos int) bool {
	v.check(pos)
	return cpu.Load(&v.words[pos/wordBits])&(1<<(pos%wordBits)) != 0
}

// SetRange sets every bit between start and end inclusive. The bounds may be
// given in either order.
func (v *Vector) SetRange(start, end int) {
	if end < start {
		start, end = end, start
	}
	for ; start <= end; start++ {
		v.Set(start)
	}
}

// ClearRange clears every bit between start and end inclusive.
func (v *Vector) ClearRange(start, end int) {
	if end < start {
		start, end = end, start
	}
	for ; start <= end; start++ {
		v.Clear(start)
	}
}

// FindFirstSet returns the position of the most significant set bit, or
// None. Without excluded writers the answer only means that bit was set at
// some instant during the scan.
func (v *Vector) FindFirstSet() int {
	for i := len(v.words) - 1; i >= 0; i-- {
		w := cpu.Load(&v.words[i])
		if i == len(v.words)-1 {
			w &= v.tailMask()
		}
		if w != 0 {
			return i*wordBits + wordBits - 1 - cpu.LeadingZeros(w)
		}
	}
	return None
}

// tailMask selects the bits of the last word that are inside the vector.
func (v *Vector) tailMask() uint32 {
	n := v.size % wordBits
	if n == 0 {
		return ^uint32(0)
	}
	return uint32(1)<<n - 1
}

func sameSize(vs ...*Vector) {
	for _, o := range vs[1:] {
		fault.Require(o.size == vs[0].size, fault.ErrSizeMismatch, "%d vs %d bits", vs[0].size, o.size)
	}
}

// And stores a AND b in dst.
func And(dst, a, b *Vector) {
	sameSize(dst, a, b)
	for i := range dst.words {
		cpu.Store(&dst.words[i], cpu.Load(&a.words[i])&cpu.Load(&b.words[i]))
	}
}

// Or stores a OR b in dst.
func Or(dst, a, b *Vector) {
	sameSize(dst, a, b)
	for i := range dst.words {
		cpu.Store(&dst.words[i], cpu.Load(&a.words[i])|cpu.Load(&b.words[i]))
	}
}

// Not stores the complement of a in dst.
func Not(dst, a *Vector) {
	sameSize(dst, a)
	for i := range dst.words {
		cpu.Store(&dst.words[i], ^cpu.Load(&a.words[i]))
	}
}

// Copy copies src into dst.
func Copy(dst, src *Vector) {
	Or(dst, src, src)
}

// String renders v most significant bit first.
func (v *Vector) String() string {
	var b strings.Builder
	b.Grow(v.size)
	for i := v.size - 1; i >= 0; i-- {
		if v.Test(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
