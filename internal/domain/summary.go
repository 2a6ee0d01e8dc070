package domain

import (
	"sync"
	"sync/atomic"
	"time"
)

// GroupStat is one bar of a grouped chart: attack and benign counts for a
// single value of a categorical dimension, with a zero-guarded rate.
type GroupStat struct {
	Value    string  `json:"value"`
	Sessions int     `json:"sessions"`
	Attacks  int     `json:"attacks"`
	Rate     float64 `json:"rate"`
}

// HeatCell is one cell of the two-feature attack-rate grid.
type HeatCell struct {
	XBin     int     `json:"x_bin"`
	YBin     int     `json:"y_bin"`
	XLabel   string  `json:"x_label"`
	YLabel   string  `json:"y_label"`
	Sessions int     `json:"sessions"`
	Rate     float64 `json:"rate"`
}

// ClassStat summarizes a numeric feature within one target class, the
// terminal rendition of the per-class distribution plots.
type ClassStat struct {
	Class    string  `json:"class"`
	Sessions int     `json:"sessions"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
}

// ViewSummary is the output of one view-model pass: the filtered row set
// plus every aggregate the dashboard tabs consume. It is ephemeral and
// recreated on every filter change.
type ViewSummary struct {
	Rows []int `json:"-"`

	Total   int     `json:"total_sessions"`
	Attacks int     `json:"attack_count"`
	Rate    float64 `json:"attack_rate"`

	Target          string  `json:"target"`
	ThresholdColumn string  `json:"threshold_column"`
	Threshold       float64 `json:"threshold"`
	Filters         string  `json:"filters"`

	Groups map[string][]GroupStat `json:"groups"`
	Heat   []HeatCell             `json:"heat,omitempty"`

	ClassColumn string      `json:"class_column,omitempty"`
	Classes     []ClassStat `json:"classes,omitempty"`
}

// Empty reports whether no record matches the current selection, in which
// case the dashboard shows its empty-state message.
func (v *ViewSummary) Empty() bool { return v.Total == 0 }

// The session metrics below follow the dashboard process, not the data:
// how many rows were loaded, how often the view recomputed and how long it
// took. They feed the status bar and the optional metrics endpoint.

type MetricsSnapshot struct {
	RowsLoaded      int64
	FilteredRows    int64
	Recomputes      int64
	Exports         int64
	Reloads         int64
	LastRecomputeMS float64
	MemoryUsageMB   float64
	Uptime          time.Duration
	StartTime       time.Time
}

type SessionMetrics struct {
	rowsLoaded   atomic.Int64
	filteredRows atomic.Int64
	recomputes   atomic.Int64
	exports      atomic.Int64
	reloads      atomic.Int64

	lastRecomputeMS float64
	memoryUsageMB   float64
	startTime       time.Time

	mu sync.RWMutex
}

func NewSessionMetrics() *SessionMetrics {
	return &SessionMetrics{startTime: time.Now()}
}

func (m *SessionMetrics) SetRowsLoaded(n int)   { m.rowsLoaded.Store(int64(n)) }
func (m *SessionMetrics) SetFilteredRows(n int) { m.filteredRows.Store(int64(n)) }
func (m *SessionMetrics) IncrementRecomputes()  { m.recomputes.Add(1) }
func (m *SessionMetrics) IncrementExports()     { m.exports.Add(1) }
func (m *SessionMetrics) IncrementReloads()     { m.reloads.Add(1) }

func (m *SessionMetrics) RowsLoaded() int64 { return m.rowsLoaded.Load() }
func (m *SessionMetrics) Recomputes() int64 { return m.recomputes.Load() }

func (m *SessionMetrics) ObserveRecompute(ms float64) {
	m.mu.Lock()
	m.lastRecomputeMS = ms
	m.mu.Unlock()
}

func (m *SessionMetrics) SetMemoryUsage(mb float64) {
	m.mu.Lock()
	m.memoryUsageMB = mb
	m.mu.Unlock()
}

func (m *SessionMetrics) GetSnapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		RowsLoaded:      m.rowsLoaded.Load(),
		FilteredRows:    m.filteredRows.Load(),
		Recomputes:      m.recomputes.Load(),
		Exports:         m.exports.Load(),
		Reloads:         m.reloads.Load(),
		LastRecomputeMS: m.lastRecomputeMS,
		MemoryUsageMB:   m.memoryUsageMB,
		Uptime:          time.Since(m.startTime),
		StartTime:       m.startTime,
	}
}
