package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maleeper/cyberscope/internal/adapters/analytics"
	"github.com/maleeper/cyberscope/internal/adapters/input"
	"github.com/maleeper/cyberscope/internal/adapters/output"
	"github.com/maleeper/cyberscope/internal/domain"
)

const sampleDataset = "../../testdata/intrusion_sample.csv"

type failingSource struct{}

func (failingSource) Load(ctx context.Context) (*domain.Table, error) {
	return nil, errors.New("source unavailable")
}
func (failingSource) Name() string { return "failing" }

func openSampleSession(t *testing.T) *Session {
	t.Helper()
	loader := input.NewCSVLoader(sampleDataset, input.CSVOptions{})
	session := NewSession(loader, analytics.DefaultOptions())
	require.NoError(t, session.Open(context.Background()))
	return session
}

func TestSessionOpen(t *testing.T) {
	session := openSampleSession(t)

	assert.Equal(t, "intrusion_sample.csv", session.SourceName())
	assert.Equal(t, 20, session.Table().NumRows())
	assert.Equal(t, int64(20), session.Metrics().RowsLoaded())

	state := session.State()
	assert.Equal(t, "attack_detected", state.Target())
	assert.Equal(t, "fail_ratio", state.ThresholdColumn())
}

func TestSessionOpenFailureIsFatal(t *testing.T) {
	session := NewSession(failingSource{}, analytics.DefaultOptions())
	err := session.Open(context.Background())
	require.Error(t, err)
	assert.Nil(t, session.Table())
}

func TestSessionMutateRecomputes(t *testing.T) {
	session := openSampleSession(t)

	view, err := session.Mutate(func(fs *domain.FilterState) error {
		return fs.SetCategorical("protocol_type", []string{"TCP"})
	})
	require.NoError(t, err)

	assert.Equal(t, 8, view.Total)
	assert.Equal(t, 3, view.Attacks)
	assert.InDelta(t, 0.375, view.Rate, 1e-9)
	assert.Same(t, view, session.LastView())
	assert.Equal(t, int64(1), session.Metrics().Recomputes())
}

func TestSessionMutateRejectionKeepsState(t *testing.T) {
	session := openSampleSession(t)

	_, err := session.Mutate(func(fs *domain.FilterState) error {
		return fs.SetTarget("protocol_type")
	})
	require.Error(t, err)
	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	assert.Equal(t, "attack_detected", session.State().Target())
	assert.Equal(t, int64(0), session.Metrics().Recomputes())
	assert.Nil(t, session.LastView())
}

func TestSessionStateSnapshotIsDetached(t *testing.T) {
	session := openSampleSession(t)

	snapshot := session.State()
	require.NoError(t, snapshot.SetCategorical("protocol_type", []string{"UDP"}))

	assert.Equal(t, 0, session.State().ActiveFilterCount())
}

func TestSessionExportRecomputesWhenNeeded(t *testing.T) {
	session := openSampleSession(t)

	path := filepath.Join(t.TempDir(), "export.csv")
	exporter := output.NewCSVExporter(path)
	require.NoError(t, session.Export(context.Background(), exporter))

	reloaded, err := input.NewCSVLoader(path, input.CSVOptions{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, reloaded.NumRows())

	snapshot := session.Metrics().GetSnapshot()
	assert.Equal(t, int64(1), snapshot.Exports)
}

func TestSessionReloadRebuildsState(t *testing.T) {
	session := openSampleSession(t)

	_, err := session.Mutate(func(fs *domain.FilterState) error {
		return fs.SetCategorical("protocol_type", []string{"ICMP"})
	})
	require.NoError(t, err)

	require.NoError(t, session.Reload(context.Background()))

	// Reload starts from defaults so stale selections never dangle.
	assert.Equal(t, 0, session.State().ActiveFilterCount())
	assert.Equal(t, int64(1), session.Metrics().GetSnapshot().Reloads)
}

func TestSessionReloadFailureKeepsTable(t *testing.T) {
	session := openSampleSession(t)
	table := session.Table()

	session.source = failingSource{}
	require.Error(t, session.Reload(context.Background()))

	assert.Same(t, table, session.Table())
	assert.Equal(t, int64(0), session.Metrics().GetSnapshot().Reloads)
}

type recordingObserver struct {
	views []*domain.ViewSummary
}

func (r *recordingObserver) OnView(v *domain.ViewSummary) { r.views = append(r.views, v) }

func TestSessionObserverFanOut(t *testing.T) {
	session := openSampleSession(t)
	observer := &recordingObserver{}
	session.AddObserver(observer)

	_, err := session.Recompute()
	require.NoError(t, err)
	_, err = session.Mutate(func(fs *domain.FilterState) error {
		return fs.SetThreshold(0.5)
	})
	require.NoError(t, err)

	require.Len(t, observer.views, 2)
	assert.Equal(t, 20, observer.views[0].Total)
	assert.Equal(t, 6, observer.views[1].Total)
}
