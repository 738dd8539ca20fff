package console

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/hal"
)

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFB(w, h int) *memFB { return &memFB{w: w, h: h, buf: make([]byte, w*h*2)} }

func (f *memFB) Width() int                  { return f.w }
func (f *memFB) Height() int                 { return f.h }
func (f *memFB) Format() hal.PixelFormat     { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int            { return f.w * 2 }
func (f *memFB) Buffer() []byte              { return f.buf }
func (f *memFB) Present() error              { f.presents++; return nil }
func (f *memFB) Framebuffer() hal.Framebuffer { return f }

func (f *memFB) ClearRGB(r, g, b uint8) {
	p := hal.RGB565(r, g, b)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i], f.buf[i+1] = byte(p), byte(p>>8)
	}
}

func (f *memFB) lit() int {
	n := 0
	for i := 0; i < len(f.buf); i += 2 {
		if f.buf[i] != 0 || f.buf[i+1] != 0 {
			n++
		}
	}
	return n
}

func TestWriteDrawsGlyphs(t *testing.T) {
	fb := newMemFB(120, 60)
	c := New(fb)
	require.True(t, c.Enabled())
	require.Zero(t, fb.lit())

	n, err := c.Write([]byte("> tasks\n"))
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.NotZero(t, fb.lit())
	require.Greater(t, fb.presents, 1)

	c.Clear()
	require.Zero(t, fb.lit())
}

func TestScrollsWhenFull(t *testing.T) {
	fb := newMemFB(64, 24)
	c := New(fb)
	for i := 0; i < 20; i++ {
		_, err := c.Write([]byte("line\n"))
		require.NoError(t, err)
	}
	require.NotZero(t, fb.lit())
}

func TestPanelScrollMapsRows(t *testing.T) {
	fb := newMemFB(4, 3)
	p := newPanel(fb)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.SetPixel(1, 0, white)

	require.NoError(t, p.Display())
	require.Equal(t, byte(0xff), fb.buf[1*2])

	p.SetScroll(1)
	require.NoError(t, p.Display())
	require.Equal(t, byte(0), fb.buf[1*2])
	require.Equal(t, byte(0xff), fb.buf[2*fb.StrideBytes()+1*2], "RAM row 0 shows on the last screen row")

	p.SetScroll(-1)
	require.Equal(t, 2, p.scroll)

	p.SetPixel(4, 0, white)
	p.SetPixel(0, -1, white)
	require.NoError(t, p.FillRectangle(-2, -2, 3, 3, white))
	require.Equal(t, byte(0xff), p.ram[0])
}

type noDisplay struct{}

func (noDisplay) Framebuffer() hal.Framebuffer { return nil }

func TestNoFramebufferDiscards(t *testing.T) {
	for _, d := range []hal.Display{nil, noDisplay{}} {
		c := New(d)
		require.False(t, c.Enabled())
		n, err := c.Write([]byte("hello"))
		require.NoError(t, err)
		require.Equal(t, 5, n)
	}
}
