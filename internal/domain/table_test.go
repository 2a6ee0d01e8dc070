package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionTable(t *testing.T) *Table {
	t.Helper()
	header := []string{"session_id", "protocol_type", "packet_size", "fail_ratio", "attack_detected"}
	rows := [][]string{
		{"S1", "TCP", "150", "0.00", "0"},
		{"S2", "TCP", "480", "0.60", "1"},
		{"S3", "UDP", "220", "0.00", "0"},
		{"S4", "UDP", "620", "0.75", "1"},
		{"S5", "ICMP", "310", "0.33", "0"},
		{"S6", "TCP", "", "0.10", "0"},
	}
	table, err := BuildTable(header, rows)
	require.NoError(t, err)
	return table
}

func TestBuildTableSchemaInference(t *testing.T) {
	table := sessionTable(t)

	assert.Equal(t, 6, table.NumRows())
	assert.Equal(t, []string{"session_id", "protocol_type", "packet_size", "fail_ratio", "attack_detected"}, table.Header())

	kind, ok := table.ColumnKind("protocol_type")
	require.True(t, ok)
	assert.Equal(t, KindCategorical, kind)

	kind, ok = table.ColumnKind("packet_size")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, kind)

	_, ok = table.ColumnKind("nonexistent")
	assert.False(t, ok)
}

func TestBuildTableRejectsMalformedInput(t *testing.T) {
	_, err := BuildTable(nil, nil)
	assert.Error(t, err)

	_, err = BuildTable([]string{"a", "a"}, nil)
	assert.Error(t, err)

	_, err = BuildTable([]string{"a", ""}, nil)
	assert.Error(t, err)

	_, err = BuildTable([]string{"a", "b"}, [][]string{{"only one"}})
	assert.Error(t, err)
}

func TestMissingNumericCellIsNaN(t *testing.T) {
	table := sessionTable(t)

	vals := table.Floats("packet_size")
	require.Len(t, vals, 6)
	assert.True(t, math.IsNaN(vals[5]))
	assert.Equal(t, 150.0, vals[0])
}

func TestValuesSortedDistinct(t *testing.T) {
	table := sessionTable(t)

	assert.Equal(t, []string{"ICMP", "TCP", "UDP"}, table.Values("protocol_type"))
}

func TestValuesSkipMissing(t *testing.T) {
	table, err := BuildTable([]string{"enc"}, [][]string{{"AES"}, {""}, {"DES"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"AES", "DES"}, table.Values("enc"))
}

func TestIsBinary(t *testing.T) {
	table := sessionTable(t)

	assert.True(t, table.IsBinary("attack_detected"))
	assert.False(t, table.IsBinary("protocol_type"))
	assert.False(t, table.IsBinary("session_id"))
	assert.Equal(t, []string{"attack_detected"}, table.BinaryColumns())
}

func TestBinaryValuesNumericPassthrough(t *testing.T) {
	table := sessionTable(t)

	vals, err := table.BinaryValues("attack_detected")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1, 0, 0}, vals)
}

func TestBinaryValuesCategoricalMapping(t *testing.T) {
	table, err := BuildTable([]string{"label"}, [][]string{
		{"benign"}, {"malicious"}, {"benign"}, {""}, {"malicious"},
	})
	require.NoError(t, err)

	vals, err := table.BinaryValues("label")
	require.NoError(t, err)
	// "malicious" sorts second, so it maps to 1; missing maps to 0.
	assert.Equal(t, []int{0, 1, 0, 0, 1}, vals)
}

func TestBinaryValuesRejectsNonBinary(t *testing.T) {
	table := sessionTable(t)

	_, err := table.BinaryValues("protocol_type")
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "target", cfgErr.Field)

	_, err = table.BinaryValues("missing_column")
	assert.Error(t, err)
}

func TestNumericSummaries(t *testing.T) {
	table := sessionTable(t)

	assert.Equal(t, 150.0, table.Min("packet_size"))
	assert.Equal(t, 620.0, table.Max("packet_size"))
	// Median skips the missing cell: {150, 220, 310, 480, 620} -> 310.
	assert.Equal(t, 310.0, table.Median("packet_size"))
}

func TestRowPreservesRawCells(t *testing.T) {
	table := sessionTable(t)

	assert.Equal(t, []string{"S2", "TCP", "480", "0.60", "1"}, table.Row(1))
	assert.Equal(t, []string{"S6", "TCP", "", "0.10", "0"}, table.Row(5))
}
