// Package monitor is the serial console command monitor.
//
// The UART receive interrupt pushes bytes with Feed. The monitor itself runs
// as a continuous low-priority executive task that assembles lines, splits
// them into tokens and dispatches registered commands.
package monitor

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"

	"ember/button"
	"ember/kernel"
	"ember/lockless"
)

const (
	// MaxLine is the longest accepted command line. Longer lines are
	// discarded whole.
	MaxLine = 80

	// RxCapacity is the default receive queue depth.
	RxCapacity = 64

	// Prompt is printed after every command.
	Prompt = "> "
)

// ErrUsage is returned by commands called with bad arguments.
var ErrUsage = errors.New("usage")

// Config wires a monitor to the rest of the firmware.
type Config struct {
	Exec   *kernel.Executive
	Button *button.Button // optional
	Out    io.Writer
	Log    zerolog.Logger
	Echo   bool // echo received characters, for terminals that do not
	Rx     int  // receive queue depth, RxCapacity when zero
}

// Monitor is a line-oriented command interpreter.
type Monitor struct {
	rx       *lockless.Queue[byte]
	dropped  atomic.Uint32
	reported uint32

	line     []byte
	overlong bool
	cr       bool // last byte was '\r'

	out    io.Writer
	echo   bool
	exec   *kernel.Executive
	button *button.Button
	log    zerolog.Logger
	reg    *registry
}

// New returns a monitor with the built-in commands registered.
func New(cfg Config) (*Monitor, error) {
	if cfg.Exec == nil {
		return nil, fmt.Errorf("monitor: nil executive")
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Rx <= 0 {
		cfg.Rx = RxCapacity
	}
	m := &Monitor{
		rx:     lockless.New[byte](cfg.Rx),
		line:   make([]byte, 0, MaxLine),
		out:    cfg.Out,
		echo:   cfg.Echo,
		exec:   cfg.Exec,
		button: cfg.Button,
		log:    cfg.Log,
		reg:    newRegistry(),
	}
	for _, cmd := range builtins() {
		if err := m.reg.register(cmd); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register adds a command.
func (m *Monitor) Register(cmd Command) error {
	return m.reg.register(cmd)
}

// Feed queues one received byte. It is safe to call from interrupt context
// and never blocks; a full queue drops the byte.
func (m *Monitor) Feed(b byte) bool {
	if m.rx.Put(b) {
		return true
	}
	m.dropped.Add(1)
	return false
}

// Dropped returns the number of bytes lost to a full receive queue.
func (m *Monitor) Dropped() uint32 { return m.dropped.Load() }

// Printf writes formatted output to the console. It satisfies
// kernel.Printf.
func (m *Monitor) Printf(format string, a ...any) (int, error) {
	return fmt.Fprintf(m.out, format, a...)
}

// Start prints the banner and first prompt.
func (m *Monitor) Start(banner string) {
	m.Printf("%s\n%s", banner, Prompt)
}

// Run drains at most one line's worth of received bytes. It implements
// kernel.Task and is scheduled with interval 0.
func (m *Monitor) Run(kernel.TaskID, any) {
	if d := m.dropped.Load(); d != m.reported {
		m.log.Warn().Uint32("dropped", d-m.reported).Msg("monitor rx overflow")
		m.reported = d
	}

	for i := 0; i < MaxLine; i++ {
		c, ok := m.rx.Get()
		if !ok {
			return
		}
		m.input(c)
	}
}

func (m *Monitor) input(c byte) {
	crlf := c == '\n' && m.cr
	m.cr = c == '\r'
	if crlf {
		return
	}
	switch c {
	case '\r', '\n':
		if m.echo {
			m.Printf("\n")
		}
		if m.overlong {
			m.overlong = false
			m.line = m.line[:0]
			m.Printf("line too long\n%s", Prompt)
			return
		}
		if len(m.line) == 0 {
			m.Printf("%s", Prompt)
			return
		}
		line := string(m.line)
		m.line = m.line[:0]
		if err := m.Exec(line); err != nil {
			m.Printf("error: %v\n", err)
		}
		m.Printf("%s", Prompt)
	case '\b', 0x7f:
		if len(m.line) > 0 {
			m.line = m.line[:len(m.line)-1]
			if m.echo {
				m.Printf("\b \b")
			}
		}
	default:
		if c < ' ' {
			return
		}
		if len(m.line) == MaxLine {
			m.overlong = true
			return
		}
		m.line = append(m.line, c)
		if m.echo {
			m.out.Write([]byte{c})
		}
	}
}

// Exec runs one command line.
func (m *Monitor) Exec(line string) error {
	toks, err := Tokenize(line)
	if err != nil {
		return err
	}
	if len(toks) == 0 {
		return nil
	}
	cmd, ok := m.reg.resolve(toks[0].Str)
	if !ok {
		m.Printf("unknown command %q\n", toks[0].Str)
		return cmdHelp(m, nil)
	}
	m.log.Debug().Str("cmd", cmd.Name).Int("args", len(toks)-1).Msg("monitor command")
	if err := cmd.Run(m, toks[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("usage: %s %s", cmd.Name, cmd.Usage)
		}
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}
