// Package views holds the chart and table widgets the dashboard tabs
// render from the view model's aggregates.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maleeper/cyberscope/internal/domain"
	"github.com/maleeper/cyberscope/pkg/sanitize"
)

var (
	chartPrimary = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff41"))
	chartAmber   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb000"))
	chartRed     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff3333"))
	chartMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#707070"))
	chartDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#404040"))
	chartText    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e5e5"))
)

// BarMode selects what the bar length encodes.
type BarMode int

const (
	// BarCount: bar length is the attack count, color shaded by rate.
	BarCount BarMode = iota
	// BarRate: bar length is the attack rate itself.
	BarRate
)

// BarChart renders one grouped aggregate as horizontal bars.
type BarChart struct {
	Title string
	Width int
	Mode  BarMode
}

func NewBarChart(title string, width int, mode BarMode) *BarChart {
	if width < 40 {
		width = 40
	}
	return &BarChart{Title: title, Width: width, Mode: mode}
}

func (b *BarChart) Render(groups []domain.GroupStat) string {
	var lines []string
	lines = append(lines, chartMuted.Bold(true).Render("  "+b.Title))

	if len(groups) == 0 {
		lines = append(lines, chartDim.Italic(true).Render("  no data"))
		return strings.Join(lines, "\n")
	}

	labelWidth := 12
	for _, g := range groups {
		if len(g.Value) > labelWidth && len(g.Value) <= 20 {
			labelWidth = len(g.Value)
		}
	}

	barWidth := b.Width - labelWidth - 24
	if barWidth < 10 {
		barWidth = 10
	}

	maxVal := 0.0
	for _, g := range groups {
		v := b.value(g)
		if v > maxVal {
			maxVal = v
		}
	}

	for _, g := range groups {
		v := b.value(g)
		fill := 0
		if maxVal > 0 {
			fill = int(v / maxVal * float64(barWidth))
		}
		if fill > barWidth {
			fill = barWidth
		}

		style := rateStyle(g.Rate)
		bar := style.Render(strings.Repeat("█", fill)) +
			chartDim.Render(strings.Repeat("░", barWidth-fill))

		label := sanitize.Pad(g.Value, labelWidth)
		detail := fmt.Sprintf("%5d  %5.1f%%", g.Attacks, g.Rate*100)
		if b.Mode == BarRate {
			detail = fmt.Sprintf("%5.1f%%  n=%d", g.Rate*100, g.Sessions)
		}

		lines = append(lines, fmt.Sprintf("  %s %s %s",
			chartMuted.Render(label), bar, style.Render(detail)))
	}

	return strings.Join(lines, "\n")
}

func (b *BarChart) value(g domain.GroupStat) float64 {
	if b.Mode == BarRate {
		return g.Rate
	}
	return float64(g.Attacks)
}

func rateStyle(rate float64) lipgloss.Style {
	switch {
	case rate >= 0.6:
		return chartRed
	case rate >= 0.25:
		return chartAmber
	default:
		return chartPrimary
	}
}

func fmtLarge(n int64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}
