package monitor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/button"
	"ember/kernel"
)

func newTestMonitor(t *testing.T) (*Monitor, *kernel.Executive, *bytes.Buffer) {
	t.Helper()
	e := kernel.New()
	var out bytes.Buffer
	m, err := New(Config{Exec: e, Out: &out})
	require.NoError(t, err)
	return m, e, &out
}

func feed(m *Monitor, s string) {
	for i := 0; i < len(s); i++ {
		m.Feed(s[i])
	}
}

func TestTokenize(t *testing.T) {
	toks, err := Tokenize(`kill 0x1f -5 +7 abc 010 'two words' extra`)
	require.NoError(t, err)
	require.Len(t, toks, MaxTokens)

	require.Equal(t, Token{Str: "kill"}, toks[0])
	require.Equal(t, Token{Str: "0x1f", Num: 31, Numeric: true}, toks[1])
	require.Equal(t, Token{Str: "-5", Num: -5, Numeric: true}, toks[2])
	require.Equal(t, Token{Str: "+7", Num: 7, Numeric: true}, toks[3])
	require.False(t, toks[4].Numeric)
	require.Equal(t, int32(10), toks[5].Num)
	require.Equal(t, "two words", toks[6].Str)

	_, err = Tokenize(`find "open`)
	require.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int32
		ok   bool
	}{
		{"0", 0, true},
		{"-0x10", -16, true},
		{"0XfF", 255, true},
		{"2147483647", 2147483647, true},
		{"-2147483648", -2147483648, true},
		{"2147483648", 0, false},
		{"0x", 0, false},
		{"12a", 0, false},
		{"--1", 0, false},
		{"1_000", 0, false},
		{"", 0, false},
	} {
		got, ok := parseNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseNumber(%q) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLineAssembly(t *testing.T) {
	m, _, out := newTestMonitor(t)
	feed(m, "verx\bsion\r\n")
	m.Run(0, nil)
	require.Contains(t, out.String(), "ember ")
	require.True(t, strings.HasSuffix(out.String(), Prompt))
	require.Equal(t, 1, strings.Count(out.String(), Prompt), "CRLF must not double the prompt")
}

func TestOverlongLineDiscarded(t *testing.T) {
	var out bytes.Buffer
	m2, err := New(Config{Exec: kernel.New(), Out: &out, Rx: 2 * MaxLine})
	require.NoError(t, err)
	feed(m2, strings.Repeat("x", MaxLine+5)+"\n")
	for i := 0; i < 3; i++ {
		m2.Run(0, nil)
	}
	require.Contains(t, out.String(), "line too long")
	require.NotContains(t, out.String(), "unknown command")

	out.Reset()
	feed(m2, "version\n")
	m2.Run(0, nil)
	require.Contains(t, out.String(), "ember ")
}

func TestFeedDropsWhenFull(t *testing.T) {
	m, err := New(Config{Exec: kernel.New(), Rx: 4})
	require.NoError(t, err)
	feed(m, "abcdef")
	require.EqualValues(t, 2, m.Dropped())
	m.Run(0, nil)
	require.True(t, m.Feed('g'))
}

func TestUnknownCommandPrintsHelp(t *testing.T) {
	m, _, out := newTestMonitor(t)
	require.NoError(t, m.Exec("frobnicate"))
	require.Contains(t, out.String(), `unknown command "frobnicate"`)
	require.Contains(t, out.String(), "kill <id>")
	require.Contains(t, out.String(), "version")
}

func TestTasksFindKill(t *testing.T) {
	m, e, out := newTestMonitor(t)
	require.NoError(t, m.Exec("tasks"))
	require.Contains(t, out.String(), "no active tasks")

	e.TaskAdd("victim", kernel.PriorityReport, 10, 10, kernel.TaskFunc(func(kernel.TaskID, any) {}), nil, kernel.RunForever)
	e.TaskAdd("bystander", kernel.PriorityLowest, 10, 10, kernel.TaskFunc(func(kernel.TaskID, any) {}), nil, kernel.RunForever)
	e.RunOnce()

	out.Reset()
	require.NoError(t, m.Exec("ps"))
	require.Contains(t, out.String(), "victim")
	require.Contains(t, out.String(), "bystander")

	out.Reset()
	require.NoError(t, m.Exec("find victim"))
	require.Contains(t, out.String(), "id 0")

	require.NoError(t, m.Exec("kill 0x0"))
	e.RunOnce()
	require.Equal(t, kernel.NotFound, e.TaskExists("victim"))
	require.NotEqual(t, kernel.NotFound, e.TaskExists("bystander"))

	err := m.Exec("kill 0")
	require.ErrorContains(t, err, "not active")
	require.ErrorContains(t, m.Exec("kill 99"), "out of range")
	require.ErrorContains(t, m.Exec("kill victim"), "usage: kill <id>")
}

func TestSuspendResumeStats(t *testing.T) {
	m, e, out := newTestMonitor(t)
	require.NoError(t, m.Exec("resume"))
	require.Contains(t, out.String(), "not suspended")

	require.NoError(t, m.Exec("suspend"))
	require.True(t, e.Suspended())
	e.Tick()
	e.Tick()
	require.NoError(t, m.Exec("resume"))
	e.Tick()
	require.False(t, e.Suspended())

	out.Reset()
	require.NoError(t, m.Exec("stats"))
	require.Contains(t, out.String(), "ticks 3")
	require.Contains(t, out.String(), "overruns 2")
}

func TestButtonCommand(t *testing.T) {
	m, _, out := newTestMonitor(t)
	require.NoError(t, m.Exec("button"))
	require.Contains(t, out.String(), "no button")

	b := button.New(true)
	for i := 0; i < button.DebounceTime; i++ {
		b.Update(true)
	}
	m2, err := New(Config{Exec: kernel.New(), Out: out, Button: b})
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, m2.Exec("btn"))
	require.Contains(t, out.String(), "pressed true was-pressed true")
	require.True(t, b.WasPressed(), "peek must not clear latches")
}

func TestRegister(t *testing.T) {
	m, _, out := newTestMonitor(t)
	require.Error(t, m.Register(Command{Name: "help", Run: cmdHelp}))
	require.Error(t, m.Register(Command{Name: "list", Aliases: []string{"ps"}, Run: cmdHelp}))
	require.Error(t, m.Register(Command{Name: "nop"}))

	called := 0
	require.NoError(t, m.Register(Command{
		Name:    "echo",
		Aliases: []string{"say"},
		Run: func(m *Monitor, args []Token) error {
			called++
			for _, a := range args {
				m.Printf("%s;", a)
			}
			return nil
		},
	}))
	require.NoError(t, m.Exec(`SAY "a b" c`))
	require.Equal(t, 1, called)
	require.Contains(t, out.String(), "a b;c;")
}

func TestRunsAsExecutiveTask(t *testing.T) {
	m, e, out := newTestMonitor(t)
	e.TaskAdd("monitor", kernel.PriorityLowest, 0, 0, m, nil, kernel.RunForever)
	m.Start("ember monitor")
	feed(m, "find monitor\n")
	e.RunOnce()
	require.Contains(t, out.String(), "monitor: id 0")
}
