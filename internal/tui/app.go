// Package tui implements the interactive dashboard: Overview, Data and EDA
// tabs over the loaded dataset, with a sidebar panel for the filter state.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maleeper/cyberscope/internal/app"
	"github.com/maleeper/cyberscope/internal/domain"
	"github.com/maleeper/cyberscope/internal/ports"
	"github.com/maleeper/cyberscope/internal/tui/views"
)

const uiTickInterval = 500 * time.Millisecond

const (
	tabOverview = iota
	tabData
	tabEDA
	tabCount
)

var tabNames = []string{"OVERVIEW", "DATA", "EDA"}

type App struct {
	session  *app.Session
	model    *Model
	exporter ports.Exporter

	dataTable *views.DataTable
	sidebar   *views.Sidebar
	status    *views.Status

	activeTab    int
	sidebarOpen  bool
	ready        bool
	quitting     bool
	width        int
	height       int

	view   *domain.ViewSummary
	notice string

	reloadChan chan struct{}
}

func NewApp(session *app.Session, exporter ports.Exporter) *App {
	return &App{
		session:    session,
		model:      NewModel(session),
		exporter:   exporter,
		dataTable:  views.NewDataTable(120, 20),
		sidebar:    views.NewSidebar(60),
		status:     views.NewStatus(120),
		reloadChan: make(chan struct{}, 1),
	}
}

// NotifyReload is called by the dataset watcher; the UI picks it up on its
// own goroutine via the reload listener command.
func (a *App) NotifyReload() {
	select {
	case a.reloadChan <- struct{}{}:
	default:
	}
}

type tickMsg time.Time
type reloadMsg struct{}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.tick(), a.listenForReload(), a.recomputeCmd())
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) listenForReload() tea.Cmd {
	return func() tea.Msg { <-a.reloadChan; return reloadMsg{} }
}

type viewMsg struct {
	view *domain.ViewSummary
	err  error
}

type noticeMsg string

func (a *App) recomputeCmd() tea.Cmd {
	return func() tea.Msg {
		view, err := a.session.Recompute()
		return viewMsg{view: view, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.ready = true
		a.dataTable.Width = msg.Width
		a.status.Width = msg.Width
		a.sidebar.Width = msg.Width / 2
		if a.sidebar.Width < 50 {
			a.sidebar.Width = 50
		}
		contentHeight := msg.Height - 10
		if contentHeight < 5 {
			contentHeight = 5
		}
		a.dataTable.VisibleCount = contentHeight

	case tickMsg:
		a.refreshStatus()
		return a, a.tick()

	case reloadMsg:
		a.model.RebuildControls()
		a.dataTable.ResetScroll()
		a.notice = "dataset reloaded"
		return a, tea.Batch(a.recomputeCmd(), a.listenForReload())

	case viewMsg:
		if msg.err != nil {
			a.notice = msg.err.Error()
		} else {
			a.view = msg.view
			a.refreshStatus()
		}

	case noticeMsg:
		a.notice = string(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""

	switch msg.String() {
	case "q", "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "tab":
		a.activeTab = (a.activeTab + 1) % tabCount
		return a, nil
	case "shift+tab":
		a.activeTab = (a.activeTab + tabCount - 1) % tabCount
		return a, nil
	case "1", "2", "3":
		a.activeTab = int(msg.String()[0] - '1')
		return a, nil
	case "f":
		a.sidebarOpen = !a.sidebarOpen
		return a, nil
	case "e":
		return a, a.exportCmd()
	case "r":
		view, err := a.session.Mutate(func(fs *domain.FilterState) error {
			fs.Reset()
			return nil
		})
		a.applyResult(view, err)
		return a, nil
	}

	if a.sidebarOpen {
		return a.handleSidebarKey(msg)
	}

	if a.activeTab == tabData && a.view != nil {
		switch msg.String() {
		case "up", "k":
			a.dataTable.ScrollUp(1)
		case "down", "j":
			a.dataTable.ScrollDown(len(a.view.Rows), 1)
		case "pgup":
			a.dataTable.ScrollUp(a.dataTable.VisibleCount)
		case "pgdown":
			a.dataTable.ScrollDown(len(a.view.Rows), a.dataTable.VisibleCount)
		}
	}
	return a, nil
}

func (a *App) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.model.CursorUp()
	case "down", "j":
		a.model.CursorDown()
	case "left", "h":
		view, err := a.model.Adjust(-1)
		a.applyResult(view, err)
	case "right", "l":
		view, err := a.model.Adjust(1)
		a.applyResult(view, err)
	case "enter":
		view, err := a.model.Toggle()
		a.applyResult(view, err)
	case "a":
		view, err := a.model.ClearCurrent()
		a.applyResult(view, err)
	case "esc":
		a.sidebarOpen = false
	}
	a.sidebar.Cursor = a.model.Cursor()
	return a, nil
}

// applyResult stores a fresh view or reports the rejected mutation inline;
// the previous filter state stays in effect either way.
func (a *App) applyResult(view *domain.ViewSummary, err error) {
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			a.notice = cfgErr.Error()
		} else {
			a.notice = err.Error()
		}
		return
	}
	if view != nil {
		a.view = view
		a.dataTable.ResetScroll()
		a.refreshStatus()
	}
}

func (a *App) exportCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.session.Export(ctx, a.exporter); err != nil {
			return viewMsg{err: fmt.Errorf("export failed: %w", err)}
		}
		return noticeMsg("filtered records exported")
	}
}

func (a *App) refreshStatus() {
	rate := 0.0
	if a.view != nil {
		rate = a.view.Rate
	}
	a.status.Update(a.session.Metrics().GetSnapshot(), rate)
}

func (a *App) View() string {
	if a.quitting {
		return "\n  Session closed.\n\n"
	}
	if !a.ready || a.view == nil {
		return "\n  Loading dataset...\n\n"
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(TextDim.Render(strings.Repeat("─", a.width)))
	b.WriteString("\n")

	if a.sidebarOpen {
		b.WriteString(a.sidebar.Render(a.model.Controls()))
	} else {
		switch a.activeTab {
		case tabOverview:
			b.WriteString(a.renderOverview())
		case tabData:
			b.WriteString(a.renderData())
		case tabEDA:
			b.WriteString(a.renderEDA())
		}
	}

	b.WriteString("\n\n")
	if a.notice != "" {
		b.WriteString(TextAmber.Render("  ⚠ " + a.notice))
		b.WriteString("\n")
	}
	b.WriteString(a.status.Render())
	b.WriteString("\n")
	b.WriteString(a.renderHelp())

	return b.String()
}

func (a *App) renderHeader() string {
	title := TextPrimary.Bold(true).Render("CYBERSCOPE")

	var tabs []string
	for i, name := range tabNames {
		if i == a.activeTab && !a.sidebarOpen {
			tabs = append(tabs, TabActive.Render(name))
		} else {
			tabs = append(tabs, TabInactive.Render(name))
		}
	}
	panel := ""
	if a.sidebarOpen {
		panel = TabActive.Render("FILTERS")
	} else {
		panel = TabInactive.Render("FILTERS")
	}

	return fmt.Sprintf("  %s  %s %s  %s %s",
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...), panel,
		TextDim.Render("SRC:"), TextMuted.Render(a.session.SourceName()))
}

func (a *App) renderOverview() string {
	t := a.session.Table()
	state := a.session.State()

	var b strings.Builder
	b.WriteString(TextBold.Render("  How to Use This Dashboard"))
	b.WriteString("\n\n")
	for _, line := range []string{
		"Explore network session characteristics that contribute to intrusions.",
		"",
		"OVERVIEW  instructions and a snapshot of the processed dataset.",
		"DATA      inspect and export the filtered records.",
		"EDA       attack prevalence by protocol, encryption and behaviour.",
		"",
		"Open FILTERS (f) to pick the binary target column, set a threshold",
		"on a continuous feature, and refine with categorical and range",
		"filters. Charts recompute on every change.",
	} {
		b.WriteString(TextMuted.Render("  " + line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(TextBold.Render("  Dataset Snapshot"))
	b.WriteString("\n")
	b.WriteString(TextMuted.Render(fmt.Sprintf("  %d sessions · %d columns · target %s",
		t.NumRows(), len(t.Columns()), state.Target())))
	b.WriteString("\n\n")

	snapshot := views.NewDataTable(a.width, 10)
	head := make([]int, 0, 10)
	for i := 0; i < t.NumRows() && i < 10; i++ {
		head = append(head, i)
	}
	b.WriteString(snapshot.Render(t, head))
	return b.String()
}

func (a *App) renderData() string {
	var b strings.Builder
	b.WriteString(TextBold.Render("  Data Used in the Dashboard"))
	b.WriteString("\n")
	b.WriteString(TextMuted.Render(fmt.Sprintf("  %s matching records · press e to export CSV", fmtCount(a.view.Total))))
	b.WriteString("\n\n")
	b.WriteString(a.dataTable.Render(a.session.Table(), a.view.Rows))
	return b.String()
}

func (a *App) renderEDA() string {
	v := a.view

	var b strings.Builder
	b.WriteString(TextBold.Render("  Exploratory Data Analysis"))
	b.WriteString("\n\n")

	if v.Empty() {
		b.WriteString(TextAmber.Render("  No records match the current filter selection."))
		b.WriteString("\n")
		b.WriteString(TextMuted.Render("  Adjust the sidebar filters to continue."))
		return b.String()
	}

	rateStyle := ForRate(v.Rate)
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s\n",
		TextMuted.Render("Sessions:"), TextPrimary.Bold(true).Render(fmtCount(v.Total)),
		TextMuted.Render("Attacks:"), rateStyle.Render(fmtCount(v.Attacks)),
		TextMuted.Render("Attack Rate:"), rateStyle.Render(fmt.Sprintf("%.1f%%", v.Rate*100))))
	b.WriteString(TextDim.Render(fmt.Sprintf("  Threshold applied: %s ≥ %.3f", v.ThresholdColumn, v.Threshold)))
	b.WriteString("\n\n")

	chartWidth := a.width - 4
	if groups, ok := v.Groups["protocol_type"]; ok {
		chart := views.NewBarChart("Attack Count by Protocol Type", chartWidth, views.BarCount)
		b.WriteString(chart.Render(groups))
		b.WriteString("\n\n")
	}
	if groups, ok := v.Groups["encryption_used"]; ok {
		chart := views.NewBarChart("Attack Rate by Encryption Used", chartWidth, views.BarRate)
		b.WriteString(chart.Render(groups))
		b.WriteString("\n\n")
	}
	if groups, ok := v.Groups["unusual_time_access"]; ok {
		chart := views.NewBarChart("Attack Count by Unusual Access Window", chartWidth, views.BarCount)
		b.WriteString(chart.Render(groups))
		b.WriteString("\n\n")
	}
	for _, dim := range extraDims(a.session.Options().Dimensions) {
		groups, ok := v.Groups[dim]
		if !ok {
			continue
		}
		chart := views.NewBarChart("Attack Count by "+dim, chartWidth, views.BarCount)
		b.WriteString(chart.Render(groups))
		b.WriteString("\n\n")
	}

	if len(v.Heat) > 0 {
		heat := views.NewHeatMap("Attack Rate by Packet Size and Login Attempts",
			"network_packet_size", "login_attempts", heatBins(v))
		b.WriteString(heat.Render(v.Heat))
		b.WriteString("\n\n")
	}

	if len(v.Classes) > 0 {
		b.WriteString(TextMuted.Bold(true).Render(fmt.Sprintf("  %s by class", v.ClassColumn)))
		b.WriteString("\n")
		for _, c := range v.Classes {
			style := TextPrimary
			if c.Class == "attack" {
				style = TextRed
			}
			b.WriteString(fmt.Sprintf("  %s  n=%-6d min=%-8.1f median=%-8.1f mean=%-8.1f max=%.1f\n",
				style.Render(fmt.Sprintf("%-7s", c.Class)),
				c.Sessions, c.Min, c.Median, c.Mean, c.Max))
		}
	}

	return b.String()
}

// extraDims returns the configured dimensions without a dedicated chart,
// in configuration order so redraws keep a stable layout.
func extraDims(configured []string) []string {
	var out []string
	for _, dim := range configured {
		switch dim {
		case "protocol_type", "encryption_used", "unusual_time_access":
			continue
		}
		out = append(out, dim)
	}
	return out
}

func heatBins(v *domain.ViewSummary) int {
	bins := 0
	for _, c := range v.Heat {
		if c.XBin+1 > bins {
			bins = c.XBin + 1
		}
	}
	return bins
}

func (a *App) renderHelp() string {
	key := lipgloss.NewStyle().Foreground(ColorPrimaryDim)
	if a.sidebarOpen {
		return TextDim.Render(fmt.Sprintf("  %s move  %s adjust  %s toggle  %s clear  %s close  %s reset  %s quit",
			key.Render("↑↓"), key.Render("◀▶"), key.Render("ENTER"), key.Render("a"), key.Render("ESC"), key.Render("r"), key.Render("q")))
	}
	return TextDim.Render(fmt.Sprintf("  %s tabs  %s filters  %s export  %s reset  %s scroll  %s quit",
		key.Render("TAB"), key.Render("f"), key.Render("e"), key.Render("r"), key.Render("↑↓"), key.Render("q")))
}

func fmtCount(n int) string {
	if n >= 1000 {
		s := fmt.Sprintf("%d", n)
		var out strings.Builder
		for i, c := range s {
			if i > 0 && (len(s)-i)%3 == 0 {
				out.WriteByte(',')
			}
			out.WriteRune(c)
		}
		return out.String()
	}
	return fmt.Sprintf("%d", n)
}

func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
