package tui

import (
	"fmt"
	"math"
	"sort"

	"github.com/maleeper/cyberscope/internal/app"
	"github.com/maleeper/cyberscope/internal/domain"
	"github.com/maleeper/cyberscope/internal/tui/views"
)

// Columns with more distinct values than this get no sidebar widget;
// identifier-like columns would make value cycling useless.
const maxSidebarValues = 25

type controlKind int

const (
	ctlTarget controlKind = iota
	ctlThresholdColumn
	ctlThreshold
	ctlCategorical
	ctlRangeMin
	ctlRangeMax
)

type control struct {
	kind        controlKind
	column      string
	valueCursor int
}

// Model drives the sidebar: it owns the control list derived from the
// dataset schema and translates key presses into filter-state mutations on
// the session.
type Model struct {
	session  *app.Session
	controls []control
	cursor   int
}

func NewModel(session *app.Session) *Model {
	m := &Model{session: session}
	m.RebuildControls()
	return m
}

// RebuildControls derives the sidebar layout from the current table schema.
// Called at startup and after a dataset reload.
func (m *Model) RebuildControls() {
	t := m.session.Table()
	if t == nil {
		m.controls = nil
		return
	}

	controls := []control{
		{kind: ctlTarget},
		{kind: ctlThresholdColumn},
		{kind: ctlThreshold},
	}
	for _, col := range t.CategoricalColumns() {
		if n := len(t.Values(col)); n < 2 || n > maxSidebarValues {
			continue
		}
		controls = append(controls, control{kind: ctlCategorical, column: col})
	}
	for _, col := range t.NumericColumns() {
		if t.Min(col) == t.Max(col) {
			continue
		}
		controls = append(controls, control{kind: ctlRangeMin, column: col})
		controls = append(controls, control{kind: ctlRangeMax, column: col})
	}

	m.controls = controls
	if m.cursor >= len(controls) {
		m.cursor = 0
	}
}

func (m *Model) Cursor() int { return m.cursor }

func (m *Model) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model) CursorDown() {
	if m.cursor < len(m.controls)-1 {
		m.cursor++
	}
}

// Adjust applies a left/right key on the selected control. delta is -1 or
// +1. Returns the fresh view, or a ConfigError to report inline.
func (m *Model) Adjust(delta int) (*domain.ViewSummary, error) {
	if len(m.controls) == 0 {
		return nil, nil
	}
	c := &m.controls[m.cursor]
	t := m.session.Table()
	state := m.session.State()

	switch c.kind {
	case ctlTarget:
		next := cycle(t.BinaryColumns(), state.Target(), delta)
		if next == "" {
			return nil, nil
		}
		return m.session.Mutate(func(fs *domain.FilterState) error { return fs.SetTarget(next) })

	case ctlThresholdColumn:
		next := cycle(t.NumericColumns(), state.ThresholdColumn(), delta)
		if next == "" {
			return nil, nil
		}
		return m.session.Mutate(func(fs *domain.FilterState) error { return fs.SetThresholdColumn(next) })

	case ctlThreshold:
		col := state.ThresholdColumn()
		step := thresholdStep(t, col)
		v := clamp(state.Threshold()+float64(delta)*step, t.Min(col), t.Max(col))
		return m.session.Mutate(func(fs *domain.FilterState) error { return fs.SetThreshold(v) })

	case ctlCategorical:
		vals := t.Values(c.column)
		if len(vals) == 0 {
			return nil, nil
		}
		c.valueCursor = (c.valueCursor + delta + len(vals)) % len(vals)
		return nil, nil

	case ctlRangeMin, ctlRangeMax:
		lo, hi := t.Min(c.column), t.Max(c.column)
		step := thresholdStep(t, c.column)
		r, ok := state.RangeFor(c.column)
		if !ok {
			r = domain.Range{Min: lo, Max: hi}
		}
		if c.kind == ctlRangeMin {
			r.Min = clamp(r.Min+float64(delta)*step, lo, r.Max)
		} else {
			r.Max = clamp(r.Max+float64(delta)*step, r.Min, hi)
		}
		col := c.column
		return m.session.Mutate(func(fs *domain.FilterState) error { return fs.SetRange(col, r.Min, r.Max) })
	}
	return nil, nil
}

// Toggle applies the enter key: on a categorical control it flips the value
// under the cursor in or out of the allowed set.
func (m *Model) Toggle() (*domain.ViewSummary, error) {
	if len(m.controls) == 0 {
		return nil, nil
	}
	c := m.controls[m.cursor]
	if c.kind != ctlCategorical {
		return nil, nil
	}

	t := m.session.Table()
	vals := t.Values(c.column)
	if len(vals) == 0 || c.valueCursor >= len(vals) {
		return nil, nil
	}
	target := vals[c.valueCursor]

	state := m.session.State()
	allowed := state.Categorical(c.column)

	selected := make(map[string]struct{}, len(vals))
	if allowed == nil {
		for _, v := range vals {
			selected[v] = struct{}{}
		}
	} else {
		for v := range allowed {
			selected[v] = struct{}{}
		}
	}
	if _, ok := selected[target]; ok {
		delete(selected, target)
	} else {
		selected[target] = struct{}{}
	}

	keep := make([]string, 0, len(selected))
	for v := range selected {
		keep = append(keep, v)
	}
	sort.Strings(keep)

	col := c.column
	return m.session.Mutate(func(fs *domain.FilterState) error { return fs.SetCategorical(col, keep) })
}

// ClearCurrent applies the 'a' key: drop the filter under the cursor.
func (m *Model) ClearCurrent() (*domain.ViewSummary, error) {
	if len(m.controls) == 0 {
		return nil, nil
	}
	c := m.controls[m.cursor]
	switch c.kind {
	case ctlCategorical:
		return m.session.Mutate(func(fs *domain.FilterState) error {
			fs.ClearCategorical(c.column)
			return nil
		})
	case ctlRangeMin, ctlRangeMax:
		return m.session.Mutate(func(fs *domain.FilterState) error {
			fs.ClearRange(c.column)
			return nil
		})
	}
	return nil, nil
}

// Controls renders the sidebar rows for the current state.
func (m *Model) Controls() []views.Control {
	t := m.session.Table()
	state := m.session.State()
	if t == nil {
		return nil
	}

	out := make([]views.Control, 0, len(m.controls))
	for _, c := range m.controls {
		out = append(out, m.describe(t, state, c))
	}
	return out
}

func (m *Model) describe(t *domain.Table, state *domain.FilterState, c control) views.Control {
	switch c.kind {
	case ctlTarget:
		return views.Control{
			Label: "target column",
			Value: state.Target(),
			Hint:  "◀ ▶ cycle binary columns",
		}
	case ctlThresholdColumn:
		return views.Control{
			Label: "threshold feature",
			Value: state.ThresholdColumn(),
			Hint:  "◀ ▶ cycle numeric columns",
		}
	case ctlThreshold:
		col := state.ThresholdColumn()
		return views.Control{
			Label: "threshold value",
			Value: fmt.Sprintf("≥ %.3f  (domain %.3f-%.3f)", state.Threshold(), t.Min(col), t.Max(col)),
			Hint:  "◀ ▶ adjust",
		}
	case ctlCategorical:
		vals := t.Values(c.column)
		allowed := state.Categorical(c.column)
		marks := make([]string, len(vals))
		for i, v := range vals {
			mark := "x"
			if allowed != nil {
				if _, ok := allowed[v]; !ok {
					mark = " "
				}
			}
			cell := fmt.Sprintf("[%s]%s", mark, v)
			if i == c.valueCursor {
				cell = "‹" + cell + "›"
			}
			marks[i] = cell
		}
		return views.Control{
			Label:  c.column,
			Value:  join(marks),
			Hint:   "◀ ▶ pick value · ENTER toggle · a all",
			Active: allowed != nil,
		}
	case ctlRangeMin, ctlRangeMax:
		r, active := state.RangeFor(c.column)
		if !active {
			r = domain.Range{Min: t.Min(c.column), Max: t.Max(c.column)}
		}
		if c.kind == ctlRangeMin {
			return views.Control{
				Label:  c.column + " ≥",
				Value:  fmt.Sprintf("%.3f", r.Min),
				Hint:   "◀ ▶ adjust · a full range",
				Active: active,
			}
		}
		return views.Control{
			Label:  c.column + " ≤",
			Value:  fmt.Sprintf("%.3f", r.Max),
			Hint:   "◀ ▶ adjust · a full range",
			Active: active,
		}
	}
	return views.Control{}
}

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return ""
	}
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	return options[(idx+delta+len(options))%len(options)]
}

// thresholdStep matches the original slider: a hundredth of the column
// span, never zero.
func thresholdStep(t *domain.Table, col string) float64 {
	span := t.Max(col) - t.Min(col)
	step := span / 100
	if step <= 0 || math.IsNaN(step) {
		return 1
	}
	return math.Max(step, 1e-6)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
