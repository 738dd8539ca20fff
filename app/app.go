// Package app wires the executive, monitor, button and console onto a HAL.
package app

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ember/button"
	"ember/console"
	"ember/fault"
	"ember/hal"
	"ember/internal/buildinfo"
	"ember/internal/logging"
	"ember/kernel"
	"ember/monitor"
)

// Config selects the system tasks and runtime behavior.
type Config struct {
	TickPeriod   time.Duration // period of hal.Time ticks
	Idle         time.Duration // sleep between sweeps; 0 yields instead
	OverrunCheck bool
	Blink        bool
	Button       bool
	Console      bool
	Echo         bool // monitor echoes typed characters
	LogLevel     zerolog.Level
	LogFormat    string
}

// DefaultConfig is the hardware configuration.
func DefaultConfig() Config {
	return Config{
		TickPeriod:   time.Millisecond,
		OverrunCheck: true,
		Blink:        true,
		Button:       true,
		Console:      true,
		Echo:         true,
		LogLevel:     zerolog.InfoLevel,
		LogFormat:    logging.FormatJSON,
	}
}

// BlinkPeriod is the heartbeat LED half period.
const BlinkPeriod = 500 * time.Millisecond

// System is the running firmware.
type System struct {
	h   hal.HAL
	cfg Config
	log zerolog.Logger

	Exec    *kernel.Executive
	Monitor *monitor.Monitor
	Button  *button.Button // nil without a BUTTON pin
	Console *console.Console
}

// New builds the system and schedules its tasks. Nothing runs until Run.
func New(h hal.HAL, cfg Config) (*System, error) {
	if cfg.TickPeriod <= 0 {
		return nil, fmt.Errorf("app: tick period %v", cfg.TickPeriod)
	}
	log := logging.New(h.Logger(), cfg.LogLevel, cfg.LogFormat)
	installFaultHandler(h, log)

	idle := runtime.Gosched
	if cfg.Idle > 0 {
		d := cfg.Idle
		idle = func() { time.Sleep(d) }
	}
	s := &System{
		h:    h,
		cfg:  cfg,
		log:  log,
		Exec: kernel.New(kernel.WithLogger(log), kernel.WithIdle(idle)),
	}
	if !cfg.OverrunCheck {
		s.Exec.Suspend()
	}

	var out io.Writer = h.Serial()
	if cfg.Console {
		s.Console = console.New(h.Display())
		if s.Console.Enabled() {
			out = io.MultiWriter(out, s.Console)
		}
	}

	if cfg.Button {
		if pin := hal.FindPin(h.GPIO(), hal.PinButton); pin != nil {
			s.Button = button.New(true)
			s.Exec.TaskAdd("button", kernel.PriorityADC, 1, button.UpdateInterval,
				&button.Task{Button: s.Button, Pin: pin}, nil, kernel.RunForever)
			s.Exec.TaskAdd("button_report", kernel.PriorityReport, 1, s.ticks(50*time.Millisecond),
				kernel.TaskFunc(s.reportButton), nil, kernel.RunForever)
		} else {
			log.Warn().Str("pin", hal.PinButton).Msg("no button pin")
		}
	}

	if cfg.Blink && h.LED() != nil {
		s.Exec.TaskAdd("blink", kernel.PriorityNonCritical, 1, s.ticks(BlinkPeriod),
			kernel.TaskFunc(s.blink), new(bool), kernel.RunForever)
	}

	mon, err := monitor.New(monitor.Config{
		Exec:   s.Exec,
		Button: s.Button,
		Out:    out,
		Log:    log,
		Echo:   cfg.Echo,
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	s.Monitor = mon
	s.Exec.TaskAdd("monitor", kernel.PriorityLowest, 0, 0, mon, nil, kernel.RunForever)

	return s, nil
}

// ticks converts d to a task interval of at least one tick.
func (s *System) ticks(d time.Duration) uint16 {
	n := d / s.cfg.TickPeriod
	if n < 1 {
		return 1
	}
	if n > 0xffff {
		return 0xffff
	}
	return uint16(n)
}

// Run drives the system until ctx is done or a fault is raised. The tick
// source and the sweep loop run under one errgroup. The UART reader blocks
// in Read, so it is started detached and not joined.
func (s *System) Run(ctx context.Context) error {
	s.log.Info().
		Str("version", buildinfo.Short()).
		Dur("tick", s.cfg.TickPeriod).
		Bool("overrun_check", !s.Exec.Suspended()).
		Bool("console", s.Console != nil && s.Console.Enabled()).
		Msg("system start")

	go s.rx()
	s.Monitor.Start(fmt.Sprintf("%s, %d task slots", buildinfo.String(), kernel.TasksMax))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fault.Trap(func() error { return s.tick(ctx) })
	})
	g.Go(func() error {
		return fault.Trap(func() error { return s.Exec.Run(ctx) })
	})
	err := g.Wait()

	st := s.Exec.Stats()
	s.log.Info().
		Uint32("ticks", st.Ticks).
		Uint32("sweeps", st.Sweeps).
		Uint32("fired", st.Fired).
		Uint32("overruns", st.Overruns).
		Msg("system stop")
	return err
}

// tick forwards the HAL tick stream to the executive, standing in for the
// timer interrupt.
func (s *System) tick(ctx context.Context) error {
	ticks := s.h.Time().Ticks()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			s.Exec.Tick()
		}
	}
}

// rx forwards received bytes to the monitor, standing in for the UART
// receive interrupt.
func (s *System) rx() {
	buf := make([]byte, 32)
	for {
		n, err := s.h.Serial().Read(buf)
		for _, b := range buf[:n] {
			s.Monitor.Feed(b)
		}
		if err != nil {
			s.log.Debug().Err(err).Msg("serial rx stopped")
			return
		}
	}
}
