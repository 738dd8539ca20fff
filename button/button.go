// Package button debounces a mechanical push button sampled from a periodic
// task.
//
// The debounced state and the transition latches live in a bit vector so the
// sampling task and any reader can touch them from different contexts.
package button

import (
	"ember/bitvec"
	"ember/hal"
	"ember/kernel"
)

const (
	// UpdateInterval is the number of ticks between Update calls.
	UpdateInterval = 1
	// DebounceTime is how many ticks the input must hold a new level
	// before the change is accepted.
	DebounceTime = 20
)

const (
	bitPressed = iota
	bitWasPressed
	bitWasReleased
	bitMissed
	stateBits
)

// Button tracks one debounced input.
type Button struct {
	tracker     uint16 // ticks the sample has differed from the debounced state
	activeLevel bool
	bits        *bitvec.Vector
}

// New returns a released button. activeLevel is the sample value that means
// pressed.
func New(activeLevel bool) *Button {
	return &Button{
		activeLevel: activeLevel,
		bits:        bitvec.New(stateBits),
	}
}

// Update feeds one sample. Call it every UpdateInterval ticks from a single
// context.
func (b *Button) Update(sample bool) {
	active := sample == b.activeLevel
	if b.bits.Test(bitPressed) == active {
		b.tracker = 0
	} else if b.tracker < DebounceTime {
		b.tracker += UpdateInterval
	}

	if b.tracker >= DebounceTime {
		if active {
			b.bits.Set(bitPressed)
			b.bits.Set(bitWasPressed)
		} else {
			b.bits.Clear(bitPressed)
			b.bits.Set(bitWasReleased)
		}
	}

	if b.bits.Test(bitWasPressed) && b.bits.Test(bitWasReleased) {
		// Cycled both ways without being read.
		b.bits.Set(bitMissed)
	}
}

func (b *Button) reset() {
	b.bits.ClearRange(bitWasPressed, bitMissed)
}

// Pressed reports the debounced state and clears the transition latches.
func (b *Button) Pressed() bool {
	b.reset()
	return b.bits.Test(bitPressed)
}

// WasPressed reports a released to pressed transition since the last read.
func (b *Button) WasPressed() bool {
	v := b.bits.Test(bitWasPressed)
	b.reset()
	return v
}

// WasReleased reports a pressed to released transition since the last read.
func (b *Button) WasReleased() bool {
	v := b.bits.Test(bitWasReleased)
	b.reset()
	return v
}

// Missed reports that the button was both pressed and released since the
// last read.
func (b *Button) Missed() bool {
	v := b.bits.Test(bitMissed)
	b.reset()
	return v
}

// State is a non-destructive view of the button.
type State struct {
	Pressed, WasPressed, WasReleased, Missed bool
}

// Peek returns the current state without clearing any latch.
func (b *Button) Peek() State {
	return State{
		Pressed:     b.bits.Test(bitPressed),
		WasPressed:  b.bits.Test(bitWasPressed),
		WasReleased: b.bits.Test(bitWasReleased),
		Missed:      b.bits.Test(bitMissed),
	}
}

// String renders the state bits, most significant (missed) first.
func (b *Button) String() string { return b.bits.String() }

// Task samples a pin into a Button. Schedule it with interval UpdateInterval.
type Task struct {
	Button *Button
	Pin    hal.GPIOPin
}

// Run implements kernel.Task. Read errors skip the sample.
func (t *Task) Run(kernel.TaskID, any) {
	level, err := t.Pin.Read()
	if err != nil {
		return
	}
	t.Button.Update(level)
}
