package views

import (
	"fmt"
	"strings"

	"github.com/maleeper/cyberscope/internal/domain"
	"github.com/maleeper/cyberscope/pkg/sanitize"
)

// DataTable renders a scrollable window over the filtered record set.
type DataTable struct {
	Width        int
	VisibleCount int
	ScrollPos    int
}

func NewDataTable(width, visibleCount int) *DataTable {
	return &DataTable{Width: width, VisibleCount: visibleCount}
}

func (d *DataTable) ScrollUp(lines int) {
	d.ScrollPos -= lines
	if d.ScrollPos < 0 {
		d.ScrollPos = 0
	}
}

func (d *DataTable) ScrollDown(total, lines int) {
	d.ScrollPos += lines
	max := total - d.VisibleCount
	if max < 0 {
		max = 0
	}
	if d.ScrollPos > max {
		d.ScrollPos = max
	}
}

func (d *DataTable) ResetScroll() { d.ScrollPos = 0 }

// Render draws the header plus the visible window of filtered rows.
func (d *DataTable) Render(t *domain.Table, rows []int) string {
	if t == nil {
		return chartDim.Italic(true).Render("  no dataset")
	}
	if len(rows) == 0 {
		return chartDim.Italic(true).Render("  No records match the current filter selection.")
	}

	header := t.Header()
	widths := columnWidths(header)

	var lines []string
	var head strings.Builder
	head.WriteString("  ")
	for i, name := range header {
		head.WriteString(sanitize.Pad(name, widths[i]))
		head.WriteString(" ")
	}
	lines = append(lines, chartMuted.Bold(true).Render(head.String()))
	lines = append(lines, chartDim.Render("  "+strings.Repeat("─", min(d.Width-4, totalWidth(widths)))))

	start := d.ScrollPos
	if start > len(rows) {
		start = len(rows)
	}
	end := start + d.VisibleCount
	if end > len(rows) {
		end = len(rows)
	}

	for _, r := range rows[start:end] {
		var line strings.Builder
		line.WriteString("  ")
		for i, cell := range t.Row(r) {
			line.WriteString(sanitize.Pad(cell, widths[i]))
			line.WriteString(" ")
		}
		lines = append(lines, chartText.Render(line.String()))
	}

	if len(rows) > d.VisibleCount {
		lines = append(lines, chartDim.Render(fmt.Sprintf("  [rows %d-%d of %s]",
			start+1, end, fmtLarge(int64(len(rows))))))
	}

	return strings.Join(lines, "\n")
}

func columnWidths(header []string) []int {
	widths := make([]int, len(header))
	for i, name := range header {
		w := len(name)
		if w < 8 {
			w = 8
		}
		if w > 20 {
			w = 20
		}
		widths[i] = w
	}
	return widths
}

func totalWidth(widths []int) int {
	sum := 0
	for _, w := range widths {
		sum += w + 1
	}
	return sum
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
