package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/maleeper/cyberscope/internal/domain"
)

// Status is the session status bar: dataset size, filtered count, attack
// rate, recompute activity, memory and uptime.
type Status struct {
	Width   int
	Metrics domain.MetricsSnapshot
	Rate    float64

	lastUpdate time.Time
}

func NewStatus(width int) *Status {
	return &Status{Width: width}
}

func (s *Status) Update(metrics domain.MetricsSnapshot, rate float64) {
	s.Metrics = metrics
	s.Rate = rate
	s.lastUpdate = time.Now()
}

func (s *Status) Render() string {
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff41"))
	amber := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb000"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff3333"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#707070"))
	border := lipgloss.NewStyle().Foreground(lipgloss.Color("#2a2a2a"))

	rateStyle := green
	if s.Rate >= 0.6 {
		rateStyle = red.Bold(true)
	} else if s.Rate >= 0.25 {
		rateStyle = amber.Bold(true)
	}

	mem := green
	if s.Metrics.MemoryUsageMB > 1000 {
		mem = red.Bold(true)
	} else if s.Metrics.MemoryUsageMB > 500 {
		mem = amber.Bold(true)
	}

	sep := border.Render(" │ ")
	items := []string{
		muted.Render("ROWS:") + " " + green.Render(fmtLarge(s.Metrics.RowsLoaded)),
		muted.Render("MATCH:") + " " + green.Render(fmtLarge(s.Metrics.FilteredRows)),
		muted.Render("ATTACK:") + " " + rateStyle.Render(fmt.Sprintf("%.1f%%", s.Rate*100)),
		muted.Render("CALC:") + " " + green.Render(fmt.Sprintf("%s (%.0fms)", fmtLarge(s.Metrics.Recomputes), s.Metrics.LastRecomputeMS)),
		muted.Render("MEM:") + " " + mem.Render(fmt.Sprintf("%.0fM", s.Metrics.MemoryUsageMB)),
		muted.Render("UP:") + " " + green.Render(fmtUptime(s.Metrics.Uptime)),
	}
	if s.Metrics.Reloads > 0 {
		items = append(items, muted.Render("RELOADS:")+" "+amber.Render(fmtLarge(s.Metrics.Reloads)))
	}

	line := ""
	for i, item := range items {
		if i > 0 {
			line += sep
		}
		line += item
	}

	return lipgloss.NewStyle().
		Width(s.Width).
		Padding(0, 1).
		Background(lipgloss.Color("#0a0a0a")).
		Render(line)
}

func fmtUptime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm%02ds", m, sec)
}
