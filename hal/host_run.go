//go:build !tinygo

package hal

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunConfig controls the host runner.
type RunConfig struct {
	Window     bool
	TickPeriod time.Duration
	Ticks      uint64 // stop after N ticks (0 = run until ctx is done)
}

// Main is the firmware entry point driven by Run.
type Main func(ctx context.Context, h HAL) error

// Run builds a host HAL and runs main next to its tick source until main
// returns, ctx is done, the tick limit is reached or the window closes.
func Run(ctx context.Context, cfg RunConfig, main Main) error {
	h := newHost(cfg.TickPeriod, cfg.Window)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Window {
		return runWindow(ctx, cancel, h, main, cfg)
	}

	g, gctx := errgroup.WithContext(ctx)
	startHost(gctx, g, cancel, h, main, cfg)
	return g.Wait()
}

func startHost(ctx context.Context, g *errgroup.Group, cancel context.CancelFunc, h *hostHAL, main Main, cfg RunConfig) {
	g.Go(func() error {
		h.t.run(ctx, cfg.Ticks)
		cancel()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return main(ctx, h)
	})
}
