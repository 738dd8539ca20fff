// Package logging builds the firmware's zerolog logger on top of the HAL
// line logger.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"ember/hal"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a logger writing to out at level. The console format renders
// records for humans; anything else writes JSON.
func New(out hal.Logger, level zerolog.Level, format string) zerolog.Logger {
	var w io.Writer = LineWriter{Out: out}
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel accepts zerolog level names, case-insensitively.
func ParseLevel(s string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: %w", err)
	}
	return l, nil
}

// ParseFormat validates a format name.
func ParseFormat(s string) (string, error) {
	switch s {
	case FormatJSON, FormatConsole:
		return s, nil
	}
	return "", fmt.Errorf("logging: unknown format %q", s)
}

// LineWriter splits writes into lines for a hal.Logger. Empty lines are
// dropped.
type LineWriter struct {
	Out hal.Logger
}

func (w LineWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		line := p
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			line, p = p[:i], p[i+1:]
		} else {
			p = nil
		}
		if len(line) > 0 {
			w.Out.WriteLineBytes(line)
		}
	}
	return n, nil
}
