package views

import (
	"fmt"
	"strings"

	"github.com/maleeper/cyberscope/pkg/sanitize"
)

// Control is one sidebar row: a filter widget with its rendered value.
type Control struct {
	Label  string
	Value  string
	Hint   string
	Active bool
}

// Sidebar renders the configuration panel: target selector, threshold
// slider and the categorical/numeric filter widgets.
type Sidebar struct {
	Width  int
	Cursor int
}

func NewSidebar(width int) *Sidebar {
	return &Sidebar{Width: width}
}

func (s *Sidebar) Render(controls []Control) string {
	var lines []string
	lines = append(lines, chartMuted.Bold(true).Render("  CONFIGURATION"))
	lines = append(lines, chartDim.Render("  "+strings.Repeat("─", s.Width-4)))

	labelWidth := 20
	for i, c := range controls {
		cursor := "  "
		labelStyle := chartMuted
		valueStyle := chartText
		if i == s.Cursor {
			cursor = chartPrimary.Render("▸ ")
			labelStyle = chartPrimary
		}
		if c.Active {
			valueStyle = chartAmber
		}

		line := fmt.Sprintf(" %s%s %s",
			cursor,
			labelStyle.Render(sanitize.Pad(c.Label, labelWidth)),
			valueStyle.Render(sanitize.Cell(c.Value, s.Width-labelWidth-10)))
		lines = append(lines, line)

		if i == s.Cursor && c.Hint != "" {
			lines = append(lines, chartDim.Render(strings.Repeat(" ", labelWidth+4)+c.Hint))
		}
	}

	return strings.Join(lines, "\n")
}
