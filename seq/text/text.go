// Package text provides sequence sources over strings.
package text

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lguimbarda/min-seq/seq/core"
)

// Split compiles pattern and splits s around its matches. See SplitRegexp.
func Split(pattern, s string) (*core.Sequence[string], error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("text: compile %q: %w", pattern, err)
	}
	return SplitRegexp(re, s), nil
}

// SplitRegexp splits s around the matches of re. Trailing empty substrings
// are dropped; splitting the empty string yields a single empty string.
func SplitRegexp(re *regexp.Regexp, s string) *core.Sequence[string] {
	if s == "" {
		return core.Of([]string{""})
	}
	parts := re.Split(s, -1)
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return core.Of(parts[:end])
}

// Chars yields the runes of s.
func Chars(s string) *core.Sequence[rune] {
	return core.Of([]rune(s))
}

// Fields yields the whitespace separated fields of s.
func Fields(s string) *core.Sequence[string] {
	return core.Of(strings.Fields(s))
}

// Lines yields the lines of s without their line terminators.
func Lines(s string) *core.Sequence[string] {
	return core.Map(core.FromIter(strings.Lines(s)), func(line string) string {
		return strings.TrimRight(line, "\r\n")
	})
}
