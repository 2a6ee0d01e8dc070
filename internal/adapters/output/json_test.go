package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maleeper/cyberscope/internal/adapters/analytics"
	"github.com/maleeper/cyberscope/internal/adapters/input"
	"github.com/maleeper/cyberscope/internal/domain"
)

func domainState(t *testing.T, table *domain.Table) (*domain.FilterState, error) {
	t.Helper()
	return domain.NewFilterState(table)
}

func TestJSONSummaryWriterToFile(t *testing.T) {
	loader := input.NewCSVLoader(sampleDataset, input.CSVOptions{})
	table, err := loader.Load(context.Background())
	require.NoError(t, err)

	fs, err := domainState(t, table)
	require.NoError(t, err)
	require.NoError(t, fs.SetCategorical("protocol_type", []string{"TCP"}))

	view, err := analytics.Compute(table, fs, analytics.DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "summary.json")
	writer, err := NewJSONSummaryWriter(JSONSummaryConfig{FilePath: path, Pretty: true})
	require.NoError(t, err)

	require.NoError(t, writer.Export(context.Background(), table, view))
	require.NoError(t, writer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		GeneratedAt string              `json:"generated_at"`
		Summary     *domain.ViewSummary `json:"summary"`
	}
	require.NoError(t, sonic.Unmarshal(data, &doc))
	assert.NotEmpty(t, doc.GeneratedAt)
	require.NotNil(t, doc.Summary)
	assert.Equal(t, 8, doc.Summary.Total)
	assert.Equal(t, 3, doc.Summary.Attacks)
	assert.Contains(t, doc.Summary.Filters, "protocol_type in {TCP}")
	// Row indexes are internal and never serialized.
	assert.Empty(t, doc.Summary.Rows)
}

func TestJSONSummaryWriterBadPath(t *testing.T) {
	_, err := NewJSONSummaryWriter(JSONSummaryConfig{FilePath: "/proc/invalid/summary.json"})
	assert.Error(t, err)
}
