//go:build !tinygo

package cpu

import (
	"sync"
	"sync/atomic"
)

// On a host there are no interrupts to mask. Contexts that stand in for
// interrupt handlers are goroutines, so the mask is a process-wide mutex.
// Unlike PRIMASK it does not nest.
var mask sync.Mutex

var casHook atomic.Pointer[func(addr *uint32)]

// SetCASHook installs fn to run between the caller's load and the swap of
// every CompareAndSwap, simulating an interrupt that lands mid-update.
// Passing nil removes the hook.
func SetCASHook(fn func(addr *uint32)) {
	if fn == nil {
		casHook.Store(nil)
		return
	}
	casHook.Store(&fn)
}

// CompareAndSwap stores new at addr iff it still holds old.
func CompareAndSwap(addr *uint32, old, new uint32) bool {
	if fn := casHook.Load(); fn != nil {
		(*fn)(addr)
	}
	return atomic.CompareAndSwapUint32(addr, old, new)
}

// Load reads the word at addr.
func Load(addr *uint32) uint32 {
	return atomic.LoadUint32(addr)
}

// Store writes the word at addr.
func Store(addr *uint32, v uint32) {
	atomic.StoreUint32(addr, v)
}

// State is the saved interrupt state returned by Lock.
type State struct{}

// Lock masks interrupts and returns the state to restore. Use as
//
//	defer cpu.Lock().Unlock()
//
// Unlike the hardware mask it does not nest: a second Lock from a context
// already holding it blocks forever. Masked sections in this module never
// call back into Lock.
func Lock() State {
	mask.Lock()
	return State{}
}

// Unlock restores the interrupt state saved by Lock.
func (State) Unlock() {
	mask.Unlock()
}
