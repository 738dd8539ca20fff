package app

import (
	"image/color"
	"strings"

	"github.com/rs/zerolog"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"ember/fault"
	"ember/hal"
)

// installFaultHandler logs a fault, raw stack included, and paints it on
// the display. The raising context then panics, which halts the firmware.
func installFaultHandler(h hal.HAL, log zerolog.Logger) {
	fault.SetHandler(func(f *fault.Fault) {
		log.Error().Err(f.Err).Str("detail", f.Detail).Msg("fault")
		if l := h.Logger(); l != nil {
			for _, line := range strings.Split(string(f.Stack), "\n") {
				if line != "" {
					l.WriteLineString(line)
				}
			}
		}
		if d := h.Display(); d != nil {
			paintFault(d.Framebuffer(), f)
		}
	})
}

const (
	faultFontHeight = 10
	faultFontOffset = 6
)

// paintFault draws the fault on a red screen, wrapping long lines.
func paintFault(fb hal.Framebuffer, f *fault.Fault) {
	if fb == nil || fb.Buffer() == nil {
		return
	}
	font := &proggy.TinySZ8pt7b
	_, w := tinyfont.LineWidth(font, "0")
	fontWidth := int(w)
	if fontWidth <= 0 {
		return
	}
	cols := fb.Width() / fontWidth
	if cols <= 0 {
		return
	}

	fb.ClearRGB(160, 0, 0)
	d := fbCanvas{fb: fb}
	fg := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	lines := []string{"FAULT", f.Err.Error()}
	if f.Detail != "" {
		lines = append(lines, f.Detail)
	}
	y := 0
	for _, line := range lines {
		for len(line) > 0 && y+faultFontHeight <= fb.Height() {
			n := len(line)
			if n > cols {
				n = cols
			}
			tinyfont.WriteLine(d, font, 0, int16(y+faultFontOffset), line[:n], fg)
			line = strings.TrimLeft(line[n:], " ")
			y += faultFontHeight
		}
	}
	_ = fb.Present()
}

type fbCanvas struct {
	fb hal.Framebuffer
}

func (d fbCanvas) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fbCanvas) SetPixel(x, y int16, c color.RGBA) {
	hal.SetPixel(d.fb, int(x), int(y), c)
}

func (d fbCanvas) Display() error { return nil }
