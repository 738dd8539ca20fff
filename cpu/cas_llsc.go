//go:build tinygo && !(atsamd21 || nrf51 || rp2040)

package cpu

import (
	"runtime/interrupt"
	"sync/atomic"
)

// CompareAndSwap stores new at addr iff it still holds old. On ARMv7-M this
// lowers to an LDREX/STREX pair and leaves interrupts enabled.
func CompareAndSwap(addr *uint32, old, new uint32) bool {
	return atomic.CompareAndSwapUint32(addr, old, new)
}

func Load(addr *uint32) uint32 {
	return atomic.LoadUint32(addr)
}

func Store(addr *uint32, v uint32) {
	atomic.StoreUint32(addr, v)
}

// State is the PRIMASK value saved by Lock.
type State struct {
	s interrupt.State
}

// Lock masks interrupts and returns the state to restore. Nested pairs are
// safe: the inner Unlock restores a still-masked state.
func Lock() State {
	return State{s: interrupt.Disable()}
}

func (st State) Unlock() {
	interrupt.Restore(st.s)
}
