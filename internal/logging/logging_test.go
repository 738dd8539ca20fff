package logging

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	lines []string
}

func (c *captureLogger) WriteLineString(s string) { c.lines = append(c.lines, s) }
func (c *captureLogger) WriteLineBytes(b []byte)  { c.lines = append(c.lines, string(b)) }

func TestLineWriterSplits(t *testing.T) {
	var c captureLogger
	n, err := LineWriter{Out: &c}.Write([]byte("one\ntwo\n\nthree"))
	require.NoError(t, err)
	require.Equal(t, 14, n)
	require.Equal(t, []string{"one", "two", "three"}, c.lines)
}

func TestNewJSON(t *testing.T) {
	var c captureLogger
	log := New(&c, zerolog.InfoLevel, FormatJSON)
	log.Debug().Msg("hidden")
	log.Info().Uint8("id", 3).Msg("task merged")
	require.Len(t, c.lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(c.lines[0]), &rec))
	require.Equal(t, "task merged", rec["message"])
	require.Equal(t, "info", rec["level"])
	require.EqualValues(t, 3, rec["id"])
}

func TestNewConsole(t *testing.T) {
	var c captureLogger
	log := New(&c, zerolog.DebugLevel, FormatConsole)
	log.Warn().Str("task", "blink").Msg("slow")
	require.Len(t, c.lines, 1)
	require.True(t, strings.Contains(c.lines[0], "WRN"), c.lines[0])
	require.Contains(t, c.lines[0], "task=blink")
}

func TestParse(t *testing.T) {
	l, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, l)

	_, err = ParseLevel("loud")
	require.Error(t, err)

	f, err := ParseFormat("console")
	require.NoError(t, err)
	require.Equal(t, FormatConsole, f)
	_, err = ParseFormat("xml")
	require.Error(t, err)
}
