// Package sanitize makes untrusted dataset cell values safe for terminal
// display. Processed CSVs can carry control characters or escape sequences
// in free-text columns; rendering them raw would corrupt the dashboard.
package sanitize

import "strings"

const DefaultMaxCellWidth = 32

// Cell sanitizes a value and truncates it to maxWidth with an ellipsis.
func Cell(s string, maxWidth int) string {
	clean := Terminal(s)
	if maxWidth > 0 && len(clean) > maxWidth {
		if maxWidth > 3 {
			return clean[:maxWidth-3] + "..."
		}
		return clean[:maxWidth]
	}
	return clean
}

// Terminal replaces control characters with visible placeholders. ANSI
// escape sequences are collapsed to a single [ESC] marker.
func Terminal(s string) string {
	if !needsSanitizing(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == 0x1B:
			i = skipEscape(s, i)
			b.WriteString("[ESC]")
		case c == '\t':
			b.WriteByte(' ')
			i++
		case c < 0x20 || c == 0x7F:
			b.WriteByte('?')
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func needsSanitizing(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7F {
			return true
		}
	}
	return false
}

// skipEscape advances past an ANSI CSI sequence starting at i.
func skipEscape(s string, i int) int {
	i++ // ESC
	if i < len(s) && s[i] == '[' {
		i++
		for i < len(s) {
			c := s[i]
			i++
			if c >= 0x40 && c <= 0x7E {
				break
			}
		}
	}
	return i
}

// Pad right-pads (or truncates) a sanitized value to an exact width for
// column layout.
func Pad(s string, width int) string {
	s = Cell(s, width)
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
