package hal

import (
	"errors"
	"io"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides the executive tick stream.
//
// Each value is a tick sequence number. Ticks arrive every Period; a
// receiver that falls behind sees gaps in the sequence.
type Time interface {
	Ticks() <-chan uint64
}

// Serial is the console UART. Read blocks until at least one byte arrives.
type Serial interface {
	io.ReadWriter
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	Display() Display
	Time() Time
	Serial() Serial
}
