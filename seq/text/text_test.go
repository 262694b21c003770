package text

import (
	"context"
	"regexp"
	"regexp/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    []string
	}{
		{"comma and space", ", ", "one, two, three", []string{"one", "two", "three"}},
		{"trailing separators dropped", ",", "a,b,,", []string{"a", "b"}},
		{"leading separator kept", ",", ",a", []string{"", "a"}},
		{"regex class", `\s*;\s*`, "x ; y;z", []string{"x", "y", "z"}},
		{"empty input", ",", "", []string{""}},
		{"no match", ",", "abc", []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Split(tt.pattern, tt.input)
			require.NoError(t, err)
			got, err := s.ToList(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitInvalidPattern(t *testing.T) {
	_, err := Split("(", "a(b")
	var syntaxErr *syntax.Error
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, syntax.ErrMissingParen, syntaxErr.Code)
	assert.Contains(t, err.Error(), `compile "("`)
}

func TestSplitRegexpReusesPattern(t *testing.T) {
	re := regexp.MustCompile(`-+`)
	for range 2 {
		got, err := SplitRegexp(re, "a--b-c").ToList(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, got)
	}
}

func TestChars(t *testing.T) {
	got, err := Chars("Stream").ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []rune{83, 116, 114, 101, 97, 109}, got)

	got, err = Chars("héllo").ToList(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestFieldsAndLines(t *testing.T) {
	fields, err := Fields("  alpha beta\tgamma\n").ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, fields)

	lines, err := Lines("one\r\ntwo\nthree").ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}
