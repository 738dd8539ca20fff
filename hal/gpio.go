package hal

import (
	"fmt"
	"sync"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIO is the board's table of named pins.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// Pin names every HAL registers.
const (
	PinLED    = "LED"
	PinButton = "BUTTON" // reads high while pressed
)

// FindPin returns the pin called name, or nil.
func FindPin(g GPIO, name string) GPIOPin {
	if g == nil {
		return nil
	}
	for i := 0; i < g.PinCount(); i++ {
		if p := g.Pin(i); p != nil && p.Name() == name {
			return p
		}
	}
	return nil
}

type nullGPIO struct{}

func (nullGPIO) PinCount() int      { return 0 }
func (nullGPIO) Pin(id int) GPIOPin { return nil }

// pinTable is a fixed GPIO table. Nil pins are dropped.
type pinTable []GPIOPin

func newPinTable(pins ...GPIOPin) GPIO {
	t := make(pinTable, 0, len(pins))
	for _, p := range pins {
		if p != nil {
			t = append(t, p)
		}
	}
	if len(t) == 0 {
		return nullGPIO{}
	}
	return t
}

func (t pinTable) PinCount() int { return len(t) }

func (t pinTable) Pin(id int) GPIOPin {
	if id < 0 || id >= len(t) {
		return nil
	}
	return t[id]
}

func pinErr(name, format string, args ...any) error {
	return fmt.Errorf("gpio: pin %s: "+format, append([]any{name}, args...)...)
}

// latchPin is a header pin with no hardware behind it. Writes in output
// mode are read back; pulls set the level an input floats to.
type latchPin struct {
	mu    sync.Mutex
	name  string
	caps  GPIOCaps
	mode  GPIOMode
	level bool
}

func newLatchPin(name string) *latchPin {
	return &latchPin{name: name, caps: GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown}
}

func (p *latchPin) Name() string   { return p.name }
func (p *latchPin) Caps() GPIOCaps { return p.caps }

func (p *latchPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mode != GPIOModeInput && mode != GPIOModeOutput {
		return pinErr(p.name, "invalid mode %d", mode)
	}
	p.mode = mode
	if mode == GPIOModeOutput {
		return nil
	}
	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		p.level = true
	case GPIOPullDown:
		p.level = false
	default:
		return pinErr(p.name, "invalid pull %d", pull)
	}
	return nil
}

func (p *latchPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *latchPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return pinErr(p.name, "not in output mode")
	}
	p.level = level
	return nil
}

// pressPin simulates a user pressing a button for held out of every
// period, starting pressed.
type pressPin struct {
	name   string
	start  time.Time
	now    func() time.Time
	period time.Duration
	held   time.Duration
}

func newPressPin(name string, period, held time.Duration, now func() time.Time) *pressPin {
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = time.Second
	}
	held = min(max(held, 0), period)
	return &pressPin{name: name, start: now(), now: now, period: period, held: held}
}

func (p *pressPin) Name() string   { return p.name }
func (p *pressPin) Caps() GPIOCaps { return GPIOCapInput }

func (p *pressPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput || pull != GPIOPullNone {
		return pinErr(p.name, "only a plain input")
	}
	return nil
}

func (p *pressPin) Read() (bool, error) {
	elapsed := p.now().Sub(p.start)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return elapsed%p.period < p.held, nil
}

func (p *pressPin) Write(bool) error { return pinErr(p.name, "output unsupported") }

// ledPin exposes the LED as an output pin.
type ledPin struct {
	mu    sync.Mutex
	led   LED
	level bool
}

func newLEDPin(led LED) GPIOPin {
	if led == nil {
		return nil
	}
	return &ledPin{led: led}
}

func (p *ledPin) Name() string   { return PinLED }
func (p *ledPin) Caps() GPIOCaps { return GPIOCapOutput }

func (p *ledPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeOutput || pull != GPIOPullNone {
		return pinErr(PinLED, "only a plain output")
	}
	return nil
}

func (p *ledPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *ledPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	if level {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}
