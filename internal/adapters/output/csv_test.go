package output

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maleeper/cyberscope/internal/adapters/analytics"
	"github.com/maleeper/cyberscope/internal/adapters/input"
)

const sampleDataset = "../../../testdata/intrusion_sample.csv"

func TestCSVExportRoundTrip(t *testing.T) {
	loader := input.NewCSVLoader(sampleDataset, input.CSVOptions{})
	table, err := loader.Load(context.Background())
	require.NoError(t, err)

	fs, err := domainState(t, table)
	require.NoError(t, err)
	require.NoError(t, fs.SetCategorical("protocol_type", []string{"TCP"}))

	view, err := analytics.Compute(table, fs, analytics.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 8, view.Total)

	path := filepath.Join(t.TempDir(), "out", "filtered.csv")
	exporter := NewCSVExporter(path)
	assert.Equal(t, path, exporter.Path())
	require.NoError(t, exporter.Export(context.Background(), table, view))

	reloaded, err := input.NewCSVLoader(path, input.CSVOptions{}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, table.Header(), reloaded.Header())
	require.Equal(t, view.Total, reloaded.NumRows())
	for i, r := range view.Rows {
		assert.Equal(t, table.Row(r), reloaded.Row(i))
	}
}

func TestCSVExportEmptyView(t *testing.T) {
	loader := input.NewCSVLoader(sampleDataset, input.CSVOptions{})
	table, err := loader.Load(context.Background())
	require.NoError(t, err)

	fs, err := domainState(t, table)
	require.NoError(t, err)
	require.NoError(t, fs.SetRange("network_packet_size", 9000, 9001))

	view, err := analytics.Compute(table, fs, analytics.DefaultOptions())
	require.NoError(t, err)
	require.True(t, view.Empty())

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, NewCSVExporter(path).Export(context.Background(), table, view))

	// Header only: reloading reports an empty but well-formed table.
	reloaded, err := input.NewCSVLoader(path, input.CSVOptions{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.NumRows())
	assert.Equal(t, table.Header(), reloaded.Header())
}

func TestCSVExportUnwritablePath(t *testing.T) {
	loader := input.NewCSVLoader(sampleDataset, input.CSVOptions{})
	table, err := loader.Load(context.Background())
	require.NoError(t, err)

	fs, err := domainState(t, table)
	require.NoError(t, err)
	view, err := analytics.Compute(table, fs, analytics.DefaultOptions())
	require.NoError(t, err)

	err = NewCSVExporter("/proc/invalid/filtered.csv").Export(context.Background(), table, view)
	assert.Error(t, err)
}
