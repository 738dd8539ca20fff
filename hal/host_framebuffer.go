//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is a double-buffered RGB565 panel. The firmware draws into
// the back buffer through Buffer and ClearRGB; Present publishes a frame to
// the front buffer, which is all the window ever reads.
type hostFramebuffer struct {
	width  int
	height int
	back   []byte

	mu     sync.Mutex
	front  []byte
	frames uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	size := width * height * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		back:   make([]byte, size),
		front:  make([]byte, size),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.width * 2 }
func (f *hostFramebuffer) Buffer() []byte      { return f.back }

// ClearRGB fills the back buffer, doubling the filled prefix on each copy.
func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	if len(f.back) < 2 {
		return
	}
	p := RGB565(r, g, b)
	f.back[0], f.back[1] = byte(p), byte(p>>8)
	for n := 2; n < len(f.back); n *= 2 {
		copy(f.back[n:], f.back[:n])
	}
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.front, f.back)
	f.frames++
	return nil
}

// frontRGB565 copies the last presented frame into dst and returns the
// number of frames presented so far.
func (f *hostFramebuffer) frontRGB565(dst []byte) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front)
	return f.frames
}
