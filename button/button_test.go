package button

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/hal"
)

// Stimulus is the raw level of an active-low button: '0' is pressed.
// Responses are indexed by sample.
type vector struct {
	name     string
	stim     string
	pressed  string
	edgeP    string
	edgeR    string
	missedAt string
}

var vectors = []vector{
	{
		name:     "clean",
		stim:     "111110000000000000000000000000111111111111111111111111100000",
		pressed:  "000000000000000000000000111111111111111111111111100000000000",
		edgeP:    "000000000000000000000000100000000000000000000000000000000000",
		edgeR:    "000000000000000000000000000000000000000000000000010000000000",
		missedAt: "000000000000000000000000000000000000000000000000010000000000",
	},
	{
		name:     "noisy",
		stim:     "111110100010011011000100000000000000001100000000000000000000000001110010110001100110111110111111111111111111111111100000",
		pressed:  "000000000000000000000000000000000000000000000000000000000001111111111111111111111111111111111111111111111111100000000000",
		edgeP:    "000000000000000000000000000000000000000000000000000000000001000000000000000000000000000000000000000000000000000000000000",
		edgeR:    "000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000010000000000",
		missedAt: "000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000010000000000",
	},
}

func TestDebounceVectors(t *testing.T) {
	for _, v := range vectors {
		for _, activeHigh := range []bool{false, true} {
			pressed := New(activeHigh)
			wasPressed := New(activeHigh)
			wasReleased := New(activeHigh)
			missed := New(activeHigh)
			all := []*Button{pressed, wasPressed, wasReleased, missed}

			for i := 0; i < len(v.stim); i++ {
				sample := v.stim[i] == '1'
				if activeHigh {
					sample = !sample
				}
				for _, b := range all {
					b.Update(sample)
				}

				if got := pressed.Pressed(); got != (v.pressed[i] == '1') {
					t.Fatalf("%s/activeHigh=%v: Pressed()=%v at sample %d", v.name, activeHigh, got, i)
				}
				if got := wasPressed.WasPressed(); got != (v.edgeP[i] == '1') {
					t.Fatalf("%s/activeHigh=%v: WasPressed()=%v at sample %d", v.name, activeHigh, got, i)
				}
				if got := wasReleased.WasReleased(); got != (v.edgeR[i] == '1') {
					t.Fatalf("%s/activeHigh=%v: WasReleased()=%v at sample %d", v.name, activeHigh, got, i)
				}
				// The missed latch is only read when it is expected, so the
				// press latch survives until the release.
				want := v.missedAt[i] == '1'
				require.Equal(t, want, missed.Peek().Missed, "%s sample %d", v.name, i)
				if want {
					require.True(t, missed.Missed())
					require.False(t, missed.Peek().Missed)
				}
			}
		}
	}
}

func TestReadsClearLatches(t *testing.T) {
	b := New(true)
	for i := 0; i < DebounceTime; i++ {
		b.Update(true)
	}
	require.Equal(t, State{Pressed: true, WasPressed: true}, b.Peek())
	require.Equal(t, "0011", b.String())
	require.True(t, b.WasPressed())
	require.False(t, b.WasPressed())
	require.True(t, b.Pressed())
}

type stubPin struct {
	level bool
	err   error
}

func (p *stubPin) Name() string                             { return hal.PinButton }
func (p *stubPin) Caps() hal.GPIOCaps                       { return hal.GPIOCapInput }
func (p *stubPin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *stubPin) Read() (bool, error)                      { return p.level, p.err }
func (p *stubPin) Write(bool) error                         { return nil }

func TestTaskSamplesPin(t *testing.T) {
	pin := &stubPin{level: true}
	task := &Task{Button: New(true), Pin: pin}
	for i := 0; i < DebounceTime; i++ {
		task.Run(0, nil)
	}
	require.True(t, task.Button.Peek().Pressed)

	// Failed reads leave the debounce state alone.
	pin.level, pin.err = false, errors.New("bus fault")
	for i := 0; i < 2*DebounceTime; i++ {
		task.Run(0, nil)
	}
	require.True(t, task.Button.Peek().Pressed)
}
