package monitor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// MaxTokens is the most tokens a command line yields; the rest are ignored.
const MaxTokens = 7

// Token is one word of a command line. Numeric tokens are decimal or 0x hex
// with an optional sign and fit in an int32.
type Token struct {
	Str     string
	Num     int32
	Numeric bool
}

func (t Token) String() string { return t.Str }

// Tokenize splits line shell-style and classifies each word.
func Tokenize(line string) ([]Token, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}
	if len(words) > MaxTokens {
		words = words[:MaxTokens]
	}
	toks := make([]Token, len(words))
	for i, w := range words {
		toks[i] = Token{Str: w}
		if n, ok := parseNumber(w); ok {
			toks[i].Num = n
			toks[i].Numeric = true
		}
	}
	return toks, nil
}

// parseNumber accepts [+-]digits and [+-]0x hexdigits. A leading zero is
// decimal, not octal.
func parseNumber(s string) (int32, bool) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	if s == "" || strings.ContainsAny(s, "+-_") {
		return 0, false
	}
	u, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, false
	}
	v := int64(u)
	if neg {
		v = -v
	}
	if v < -1<<31 || v > 1<<31-1 {
		return 0, false
	}
	return int32(v), true
}
