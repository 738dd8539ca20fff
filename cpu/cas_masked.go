//go:build tinygo && (atsamd21 || nrf51 || rp2040)

package cpu

import (
	"runtime/interrupt"
	"runtime/volatile"
)

// CompareAndSwap stores new at addr iff it still holds old. ARMv6-M has no
// exclusive monitor, so the compare and store run with interrupts masked.
func CompareAndSwap(addr *uint32, old, new uint32) bool {
	st := interrupt.Disable()
	ok := volatile.LoadUint32(addr) == old
	if ok {
		volatile.StoreUint32(addr, new)
	}
	interrupt.Restore(st)
	return ok
}

func Load(addr *uint32) uint32 {
	return volatile.LoadUint32(addr)
}

func Store(addr *uint32, v uint32) {
	volatile.StoreUint32(addr, v)
}

// State is the PRIMASK value saved by Lock.
type State struct {
	s interrupt.State
}

// Lock masks interrupts and returns the state to restore.
func Lock() State {
	return State{s: interrupt.Disable()}
}

func (st State) Unlock() {
	interrupt.Restore(st.s)
}
