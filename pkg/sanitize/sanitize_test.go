package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean value untouched", "Chrome", "Chrome"},
		{"tab becomes space", "a\tb", "a b"},
		{"control chars masked", "a\x00b\x07c", "a?b?c"},
		{"delete masked", "a\x7Fb", "a?b"},
		{"ansi color collapsed", "\x1B[31mred\x1B[0m", "[ESC]red[ESC]"},
		{"bare escape", "x\x1By", "x[ESC]y"},
		{"truncated escape at end", "x\x1B[", "x[ESC]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Terminal(tc.input))
		})
	}
}

func TestCell(t *testing.T) {
	assert.Equal(t, "short", Cell("short", 10))
	assert.Equal(t, "exactly-10", Cell("exactly-10", 10))
	assert.Equal(t, "this is...", Cell("this is too long for the cell", 10))
	assert.Equal(t, "ab", Cell("abcdef", 2))
	assert.Equal(t, "unbounded stays intact", Cell("unbounded stays intact", 0))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab        ", Pad("ab", 10))
	assert.Equal(t, "this is...", Pad("this is too long for the cell", 10))
	assert.Len(t, Pad("x\x1B[31my", 12), 12)
}
