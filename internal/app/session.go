// Package app wires the dataset source, filter state and view model into a
// dashboard session, and carries the session configuration.
package app

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maleeper/cyberscope/internal/adapters/analytics"
	"github.com/maleeper/cyberscope/internal/domain"
	"github.com/maleeper/cyberscope/internal/ports"
)

// Session owns the loaded table and the user's filter state. The table is
// read-only and shared; only the filter state mutates, and only through the
// session, which recomputes the view and fans it out to observers. Each
// recompute is a bounded synchronous pass.
type Session struct {
	source ports.DatasetSource
	opts   analytics.Options

	table   atomic.Pointer[domain.Table]
	metrics *domain.SessionMetrics

	mu         sync.Mutex
	state      *domain.FilterState
	last       *domain.ViewSummary
	observers  []ports.ViewObserver
	collectors []ports.MetricsCollector
}

func NewSession(source ports.DatasetSource, opts analytics.Options) *Session {
	return &Session{
		source:  source,
		opts:    opts,
		metrics: domain.NewSessionMetrics(),
	}
}

// Options returns the analytics configuration the session computes with.
func (s *Session) Options() analytics.Options {
	return s.opts
}

// Open loads the dataset and builds the default filter state. A load
// failure here is fatal for the dashboard.
func (s *Session) Open(ctx context.Context) error {
	table, err := s.source.Load(ctx)
	if err != nil {
		return err
	}

	state, err := domain.NewFilterState(table)
	if err != nil {
		return err
	}

	s.table.Store(table)
	s.metrics.SetRowsLoaded(table.NumRows())

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	log.Info().
		Str("source", s.source.Name()).
		Int("rows", table.NumRows()).
		Str("target", state.Target()).
		Str("threshold_column", state.ThresholdColumn()).
		Msg("Session opened")
	return nil
}

func (s *Session) Table() *domain.Table            { return s.table.Load() }
func (s *Session) Metrics() *domain.SessionMetrics { return s.metrics }

func (s *Session) SourceName() string { return s.source.Name() }

// State returns a snapshot copy of the current filter state.
func (s *Session) State() *domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Session) AddObserver(o ports.ViewObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Session) AddCollector(c ports.MetricsCollector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectors = append(s.collectors, c)
}

// Mutate applies a filter-state change and recomputes. The change function
// returns an error to reject the mutation, in which case the state is
// untouched and the previous view remains current.
func (s *Session) Mutate(change func(*domain.FilterState) error) (*domain.ViewSummary, error) {
	s.mu.Lock()
	trial := s.state.Clone()
	s.mu.Unlock()

	if err := change(trial); err != nil {
		return nil, err
	}

	view, err := s.computeWith(trial)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state = trial
	s.mu.Unlock()
	return view, nil
}

// Recompute derives a fresh view from the current state, e.g. after a
// dataset reload.
func (s *Session) Recompute() (*domain.ViewSummary, error) {
	s.mu.Lock()
	state := s.state.Clone()
	s.mu.Unlock()
	return s.computeWith(state)
}

func (s *Session) computeWith(state *domain.FilterState) (*domain.ViewSummary, error) {
	table := s.table.Load()
	if table == nil {
		return nil, errors.New("session: dataset not loaded")
	}

	start := time.Now()
	view, err := analytics.Compute(table, state, s.opts)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	s.metrics.IncrementRecomputes()
	s.metrics.SetFilteredRows(view.Total)
	s.metrics.ObserveRecompute(float64(elapsed.Milliseconds()))

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.metrics.SetMemoryUsage(float64(ms.Alloc) / (1024 * 1024))

	s.mu.Lock()
	s.last = view
	observers := make([]ports.ViewObserver, len(s.observers))
	copy(observers, s.observers)
	collectors := make([]ports.MetricsCollector, len(s.collectors))
	copy(collectors, s.collectors)
	s.mu.Unlock()

	for _, c := range collectors {
		c.ObserveRecompute(elapsed.Seconds())
		c.SetFilteredRows(view.Total)
	}
	for _, o := range observers {
		o.OnView(view)
	}
	return view, nil
}

// LastView returns the most recent summary, nil before the first pass.
func (s *Session) LastView() *domain.ViewSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Export writes the current filtered subset through the exporter. The view
// is recomputed first when no pass has run yet.
func (s *Session) Export(ctx context.Context, exporter ports.Exporter) error {
	view := s.LastView()
	if view == nil {
		var err error
		view, err = s.Recompute()
		if err != nil {
			return err
		}
	}

	if err := exporter.Export(ctx, s.table.Load(), view); err != nil {
		return err
	}

	s.metrics.IncrementExports()
	s.mu.Lock()
	collectors := make([]ports.MetricsCollector, len(s.collectors))
	copy(collectors, s.collectors)
	s.mu.Unlock()
	for _, c := range collectors {
		c.IncrementExports()
	}
	return nil
}

// Reload re-reads the dataset and swaps the table pointer. The previous
// table stays current when the reload fails. Filter selections that no
// longer validate against the new schema are rebuilt from defaults.
func (s *Session) Reload(ctx context.Context) error {
	table, err := s.source.Load(ctx)
	if err != nil {
		return err
	}

	state, err := domain.NewFilterState(table)
	if err != nil {
		return err
	}

	s.table.Store(table)
	s.metrics.SetRowsLoaded(table.NumRows())
	s.metrics.IncrementReloads()

	s.mu.Lock()
	s.state = state
	collectors := make([]ports.MetricsCollector, len(s.collectors))
	copy(collectors, s.collectors)
	s.mu.Unlock()
	for _, c := range collectors {
		c.IncrementReloads()
	}

	log.Info().Int("rows", table.NumRows()).Msg("Dataset reloaded")
	return nil
}
