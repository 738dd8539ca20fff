// Package fault raises unrecoverable contract violations.
//
// A fault means a programming error, not a transient condition: the
// installed handler runs (on hardware it logs and halts) and the raising
// context then panics with the *Fault.
package fault

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrBitRange     = errors.New("bit position out of range")
	ErrSizeMismatch = errors.New("bit vector sizes differ")
	ErrStorage      = errors.New("storage too small")
	ErrCapacity     = errors.New("invalid capacity")
	ErrArenaFull    = errors.New("task arena full")
	ErrPriority     = errors.New("illegal task priority")
	ErrTaskID       = errors.New("illegal task id")
	ErrRemoveEmpty  = errors.New("remove from empty task list")
	ErrTickOverrun  = errors.New("tick overrun: previous tick not consumed")
	ErrResumeState  = errors.New("resume pending while not suspended")
)

// Fault is the panic value of a raised violation.
type Fault struct {
	Err    error
	Detail string
	Stack  []byte
}

func (f *Fault) Error() string {
	if f.Detail == "" {
		return "fault: " + f.Err.Error()
	}
	return "fault: " + f.Err.Error() + ": " + f.Detail
}

func (f *Fault) Unwrap() error { return f.Err }

var (
	active  atomic.Bool
	handler atomic.Pointer[func(*Fault)]
)

// SetHandler installs the process-wide fault handler. It may never return;
// if it does, the raising context panics.
func SetHandler(fn func(*Fault)) {
	if fn == nil {
		handler.Store(nil)
		return
	}
	handler.Store(&fn)
}

// Active reports whether a fault has been raised since start-up.
func Active() bool {
	return active.Load()
}

// Raise reports err and does not return.
func Raise(err error, format string, args ...any) {
	f := &Fault{Err: err, Stack: captureStack()}
	if format != "" {
		f.Detail = fmt.Sprintf(format, args...)
	}
	active.Store(true)
	if fn := handler.Load(); fn != nil {
		(*fn)(f)
	}
	panic(f)
}

// Require raises err unless cond holds.
func Require(cond bool, err error, format string, args ...any) {
	if !cond {
		Raise(err, format, args...)
	}
}

// Trap runs fn and returns a fault it raises as an error. Other panics
// propagate. Hosted runners use it to turn a halt into a process exit.
func Trap(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			f, ok := v.(*Fault)
			if !ok {
				panic(v)
			}
			err = f
		}
	}()
	return fn()
}
