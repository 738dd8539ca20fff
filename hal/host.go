//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	button *heldPin
	fb     *hostFramebuffer
	t      *hostTime
	serial Serial
}

// New returns a host HAL with the default tick period. The BUTTON pin is a
// slow pulse train standing in for a user pressing the button.
func New() HAL {
	return newHost(DefaultTickPeriod, false)
}

func newHost(period time.Duration, window bool) *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	led := &hostLED{logger: logger}
	h := &hostHAL{
		logger: logger,
		led:    led,
		fb:     newHostFramebuffer(320, 240),
		t:      newHostTime(period),
		serial: newHostSerial(os.Stdin, os.Stdout),
	}

	var button GPIOPin
	if window {
		// Driven by the space bar.
		h.button = newHeldPin(PinButton)
		button = h.button
	} else {
		button = newPressPin(PinButton, 4*time.Second, 300*time.Millisecond, nil)
	}
	h.gpio = newPinTable(
		newLEDPin(led),
		button,
		newLatchPin("GPIO1"),
		newLatchPin("GPIO2"),
		newLatchPin("GPIO3"),
		newLatchPin("GPIO4"),
	)
	return h
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Serial() Serial   { return h.serial }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.on {
		l.logger.WriteLineString("led: HIGH")
	}
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		l.logger.WriteLineString("led: LOW")
	}
	l.on = false
}
