// Package faulttest traps raised faults in tests.
package faulttest

import (
	"errors"
	"testing"

	"ember/fault"
)

// Expect runs fn and fails t unless it raises a fault wrapping want.
func Expect(t testing.TB, want error, fn func()) {
	t.Helper()
	got := Catch(fn)
	if got == nil {
		t.Fatalf("no fault raised, want %v", want)
	}
	if !errors.Is(got, want) {
		t.Fatalf("fault = %v, want %v", got, want)
	}
}

// Catch runs fn and returns the fault it raised, or nil. Panics that are not
// faults propagate.
func Catch(fn func()) (err *fault.Fault) {
	defer func() {
		if v := recover(); v != nil {
			f, ok := v.(*fault.Fault)
			if !ok {
				panic(v)
			}
			err = f
		}
	}()
	fn()
	return nil
}
