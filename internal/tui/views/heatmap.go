package views

import (
	"fmt"
	"strings"

	"github.com/maleeper/cyberscope/internal/domain"
)

var heatRamp = []rune{'·', '░', '▒', '▓', '█'}

// HeatMap renders the two-feature attack-rate grid. Each cell is shaded by
// rate; empty cells stay dim.
type HeatMap struct {
	Title  string
	XTitle string
	YTitle string
	Bins   int
}

func NewHeatMap(title, xTitle, yTitle string, bins int) *HeatMap {
	return &HeatMap{Title: title, XTitle: xTitle, YTitle: yTitle, Bins: bins}
}

func (h *HeatMap) Render(cells []domain.HeatCell) string {
	var lines []string
	lines = append(lines, chartMuted.Bold(true).Render("  "+h.Title))

	if len(cells) == 0 {
		lines = append(lines, chartDim.Italic(true).Render("  no data"))
		return strings.Join(lines, "\n")
	}

	grid := make(map[[2]int]domain.HeatCell, len(cells))
	yLabels := make(map[int]string)
	xLabels := make(map[int]string)
	for _, c := range cells {
		grid[[2]int{c.XBin, c.YBin}] = c
		yLabels[c.YBin] = c.YLabel
		xLabels[c.XBin] = c.XLabel
	}

	const cellWidth = 11
	labelWidth := 11

	// Rows top-down so the highest y bin sits on top.
	for y := h.Bins - 1; y >= 0; y-- {
		var row strings.Builder
		row.WriteString(chartMuted.Render(fmt.Sprintf("  %*s ", labelWidth, yLabels[y])))
		for x := 0; x < h.Bins; x++ {
			c := grid[[2]int{x, y}]
			row.WriteString(h.renderCell(c))
		}
		lines = append(lines, row.String())
	}

	var axis strings.Builder
	axis.WriteString(strings.Repeat(" ", labelWidth+3))
	for x := 0; x < h.Bins; x++ {
		axis.WriteString(chartMuted.Render(fmt.Sprintf("%-*s", cellWidth, xLabels[x])))
	}
	lines = append(lines, axis.String())
	lines = append(lines, chartDim.Render(fmt.Sprintf("  %*s   %s →   (↑ %s)", labelWidth, "", h.XTitle, h.YTitle)))

	return strings.Join(lines, "\n")
}

func (h *HeatMap) renderCell(c domain.HeatCell) string {
	if c.Sessions == 0 {
		return chartDim.Render(fmt.Sprintf(" %s %7s  ", string(heatRamp[0]), "-"))
	}

	level := int(c.Rate * float64(len(heatRamp)-1))
	if level >= len(heatRamp) {
		level = len(heatRamp) - 1
	}

	style := rateStyle(c.Rate)
	return style.Render(fmt.Sprintf(" %s %6.1f%%  ", string(heatRamp[level]), c.Rate*100))
}
