//go:build !tinygo

package hal

import (
	"io"
	"sync"
)

// hostSerial stands in for the console UART: received bytes come from in
// (stdin) and transmitted bytes go to out (stdout). Read blocks like a UART
// receive with nothing pending. Writes from several contexts are whole.
type hostSerial struct {
	in io.Reader

	mu  sync.Mutex
	out io.Writer
}

func newHostSerial(in io.Reader, out io.Writer) *hostSerial {
	return &hostSerial{in: in, out: out}
}

func (s *hostSerial) Read(p []byte) (int, error) {
	if s.in == nil {
		return 0, io.EOF
	}
	return s.in.Read(p)
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.out == nil {
		return len(p), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}
