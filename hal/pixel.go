package hal

import "image/color"

// RGB565 packs an 8-bit-per-channel color.
func RGB565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// SetPixel writes one RGB565 pixel. Out of range coordinates and
// framebuffers without pixels are ignored.
func SetPixel(fb Framebuffer, x, y int, c color.RGBA) {
	if fb == nil || fb.Format() != PixelFormatRGB565 {
		return
	}
	buf := fb.Buffer()
	if x < 0 || x >= fb.Width() || y < 0 || y >= fb.Height() {
		return
	}
	off := y*fb.StrideBytes() + x*2
	if off+1 >= len(buf) {
		return
	}
	p := RGB565(c.R, c.G, c.B)
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

// FillRect fills the clipped rectangle x,y,w,h.
func FillRect(fb Framebuffer, x, y, w, h int, c color.RGBA) {
	if fb == nil || fb.Format() != PixelFormatRGB565 {
		return
	}
	buf := fb.Buffer()
	x0, y0 := clamp(x, 0, fb.Width()), clamp(y, 0, fb.Height())
	x1, y1 := clamp(x+w, 0, fb.Width()), clamp(y+h, 0, fb.Height())
	p := RGB565(c.R, c.G, c.B)
	lo, hi := byte(p), byte(p>>8)
	stride := fb.StrideBytes()
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			off := py*stride + px*2
			if off+1 >= len(buf) {
				return
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
