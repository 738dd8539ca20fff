// Package console renders monitor output on the framebuffer as a text
// terminal.
package console

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"

	"ember/hal"
)

const (
	fontHeight = 10
	fontOffset = 6
)

// Console is an io.Writer onto a tinyterm terminal. Without a framebuffer
// it discards everything written to it.
type Console struct {
	panel *panel
	term  *tinyterm.Terminal
}

// New builds a console on d's framebuffer. d may be nil.
func New(d hal.Display) *Console {
	c := &Console{}
	if d == nil {
		return c
	}
	fb := d.Framebuffer()
	if fb == nil || fb.Buffer() == nil || fb.Format() != hal.PixelFormatRGB565 {
		return c
	}
	c.panel = newPanel(fb)
	c.Clear()
	return c
}

// Enabled reports whether output reaches a display.
func (c *Console) Enabled() bool { return c.term != nil }

// Clear blanks the screen and homes the cursor.
func (c *Console) Clear() {
	if c.panel == nil {
		return
	}
	c.panel.reset()
	c.term = tinyterm.NewTerminal(c.panel)
	c.term.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: fontHeight,
		FontOffset: fontOffset,
	})
	_ = c.panel.Display()
}

func (c *Console) Write(p []byte) (int, error) {
	if c.term == nil {
		return len(p), nil
	}
	n, err := c.term.Write(p)
	c.term.Display()
	return n, err
}

var _ drivers.Displayer = (*panel)(nil)

// panel models display RAM with a vertical scroll register in front of a
// linear framebuffer: screen row y shows RAM row (y+scroll) mod height.
// Display copies the scrolled view out.
type panel struct {
	fb     hal.Framebuffer
	w, h   int
	ram    []byte
	scroll int
}

func newPanel(fb hal.Framebuffer) *panel {
	w, h := fb.Width(), fb.Height()
	return &panel{fb: fb, w: w, h: h, ram: make([]byte, w*h*2)}
}

func (p *panel) reset() {
	clear(p.ram)
	p.scroll = 0
}

func (p *panel) Size() (x, y int16) {
	return int16(p.w), int16(p.h)
}

func (p *panel) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= p.w || int(y) >= p.h {
		return
	}
	v := hal.RGB565(c.R, c.G, c.B)
	off := (int(y)*p.w + int(x)) * 2
	p.ram[off], p.ram[off+1] = byte(v), byte(v>>8)
}

func (p *panel) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	for py := y; py < y+height; py++ {
		for px := x; px < x+width; px++ {
			p.SetPixel(px, py, c)
		}
	}
	return nil
}

func (p *panel) SetScroll(line int16) {
	p.scroll = (int(line)%p.h + p.h) % p.h
}

func (p *panel) SetRotation(drivers.Rotation) error { return nil }

func (p *panel) Display() error {
	buf := p.fb.Buffer()
	stride := p.fb.StrideBytes()
	row := p.w * 2
	for y := 0; y < p.h; y++ {
		src := ((y + p.scroll) % p.h) * row
		copy(buf[y*stride:y*stride+row], p.ram[src:src+row])
	}
	return p.fb.Present()
}
