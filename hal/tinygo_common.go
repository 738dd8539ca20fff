//go:build tinygo && baremetal

package hal

import (
	"bytes"
	"machine"
	"time"
)

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

// tinyGoTime ticks every millisecond.
type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

type uartSerial struct {
	uart *machine.UART
}

// Read waits for the RX ring buffer to fill, since machine.UART.Read returns
// immediately when it is empty.
func (s *uartSerial) Read(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	for s.uart.Buffered() == 0 {
		time.Sleep(time.Millisecond)
	}
	return s.uart.Read(p)
}

// Write expands '\n' to CRLF for serial terminals.
func (s *uartSerial) Write(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	n := 0
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			m, err := s.uart.Write(p)
			return n + m, err
		}
		m, err := s.uart.Write(p[:i])
		n += m
		if err != nil {
			return n, err
		}
		if _, err := s.uart.Write([]byte{'\r', '\n'}); err != nil {
			return n, err
		}
		n++
		p = p[i+1:]
	}
	return n, nil
}

// machinePin is an active-low push button input.
type machinePin struct {
	name string
	pin  machine.Pin
}

func newMachinePin(name string, pin machine.Pin) GPIOPin {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &machinePin{name: name, pin: pin}
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput {
		return pinErr(p.name, "only input supported")
	}
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch pull {
	case GPIOPullUp:
		cfg.Mode = machine.PinInputPullup
	case GPIOPullDown:
		return pinErr(p.name, "pull-down unsupported")
	}
	p.pin.Configure(cfg)
	return nil
}

// Read reports pressed as true.
func (p *machinePin) Read() (bool, error) { return !p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	return pinErr(p.name, "output unsupported")
}
