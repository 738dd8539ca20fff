//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"ember/app"
	"ember/hal"
	"ember/internal/buildinfo"
	"ember/internal/logging"
)

var (
	runOpts = struct {
		tick           time.Duration
		ticks          uint64
		window         bool
		noOverrunCheck bool
		noBlink        bool
		noButton       bool
		noConsole      bool
		echo           bool
		idle           time.Duration
		logLevel       string
		logFormat      string
	}{}

	rootCmd = &cobra.Command{
		Use:           "ember",
		Short:         "Cooperative real-time executive",
		Long:          "Run the ember executive and its serial monitor against a simulated board.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the firmware on the host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rc := hal.RunConfig{
				Window:     runOpts.window,
				TickPeriod: runOpts.tick,
				Ticks:      runOpts.ticks,
			}
			err = hal.Run(ctx, rc, func(ctx context.Context, h hal.HAL) error {
				s, err := app.New(h, cfg)
				if err != nil {
					return err
				}
				return s.Run(ctx)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
)

func init() {
	f := runCmd.Flags()
	f.DurationVar(&runOpts.tick, "tick", hal.DefaultTickPeriod, "executive tick period")
	f.Uint64Var(&runOpts.ticks, "ticks", 0, "stop after N ticks (0 = run until interrupted)")
	f.BoolVarP(&runOpts.window, "window", "w", false, "show the display and map the space bar to the button")
	f.BoolVar(&runOpts.noOverrunCheck, "no-overrun-check", false, "start with tick overrun checking suspended")
	f.BoolVar(&runOpts.noBlink, "no-blink", false, "do not schedule the heartbeat LED task")
	f.BoolVar(&runOpts.noButton, "no-button", false, "do not schedule the button tasks")
	f.BoolVar(&runOpts.noConsole, "no-console", false, "do not mirror the monitor on the display")
	f.BoolVar(&runOpts.echo, "echo", false, "echo monitor input")
	f.DurationVar(&runOpts.idle, "idle", time.Millisecond, "sleep between sweeps (0 = yield)")
	f.StringVarP(&runOpts.logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error)")
	f.StringVar(&runOpts.logFormat, "log-format", logging.FormatConsole, "log format (json, console)")

	rootCmd.AddCommand(runCmd, versionCmd)
}

func appConfig() (app.Config, error) {
	cfg := app.DefaultConfig()
	level, err := logging.ParseLevel(runOpts.logLevel)
	if err != nil {
		return cfg, err
	}
	format, err := logging.ParseFormat(runOpts.logFormat)
	if err != nil {
		return cfg, err
	}
	cfg.TickPeriod = runOpts.tick
	cfg.Idle = runOpts.idle
	cfg.OverrunCheck = !runOpts.noOverrunCheck
	cfg.Blink = !runOpts.noBlink
	cfg.Button = !runOpts.noButton
	cfg.Console = !runOpts.noConsole
	cfg.Echo = runOpts.echo
	cfg.LogLevel = level
	cfg.LogFormat = format
	return cfg, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "ember:", err)
		os.Exit(1)
	}
}
