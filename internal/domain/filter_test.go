package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterTable(t *testing.T) *Table {
	t.Helper()
	header := []string{"session_id", "protocol_type", "fail_ratio", "packet_size", "attack_detected", "unusual_time_access"}
	rows := [][]string{
		{"S1", "TCP", "0.00", "150", "0", "0"},
		{"S2", "TCP", "0.60", "480", "1", "1"},
		{"S3", "UDP", "0.10", "220", "0", "0"},
		{"S4", "UDP", "0.75", "620", "1", "1"},
		{"S5", "ICMP", "0.33", "310", "0", "0"},
	}
	table, err := BuildTable(header, rows)
	require.NoError(t, err)
	return table
}

func TestNewFilterStateDefaults(t *testing.T) {
	table := filterTable(t)

	fs, err := NewFilterState(table)
	require.NoError(t, err)

	assert.Equal(t, "attack_detected", fs.Target())
	assert.Equal(t, "fail_ratio", fs.ThresholdColumn())
	assert.Equal(t, 0.33, fs.Threshold())
	assert.Equal(t, 0, fs.ActiveFilterCount())
}

func TestNewFilterStateFallsBackToFirstEligible(t *testing.T) {
	table, err := BuildTable(
		[]string{"score", "verdict"},
		[][]string{{"0.1", "clean"}, {"0.9", "bad"}, {"0.5", "clean"}},
	)
	require.NoError(t, err)

	fs, err := NewFilterState(table)
	require.NoError(t, err)
	assert.Equal(t, "verdict", fs.Target())
	assert.Equal(t, "score", fs.ThresholdColumn())
	assert.Equal(t, 0.5, fs.Threshold())
}

func TestNewFilterStateRequiresBinaryColumn(t *testing.T) {
	table, err := BuildTable([]string{"a"}, [][]string{{"x"}, {"y"}, {"z"}})
	require.NoError(t, err)

	_, err = NewFilterState(table)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSetTargetValidation(t *testing.T) {
	fs, err := NewFilterState(filterTable(t))
	require.NoError(t, err)

	require.NoError(t, fs.SetTarget("unusual_time_access"))
	assert.Equal(t, "unusual_time_access", fs.Target())

	tests := []struct {
		name   string
		column string
		reason string
	}{
		{"unknown column", "no_such_column", "column not in dataset schema"},
		{"non-binary column", "protocol_type", "column is not binary"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := fs.SetTarget(tc.column)
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.reason, cfgErr.Reason)
			// Rejected selections never change the state.
			assert.Equal(t, "unusual_time_access", fs.Target())
		})
	}
}

func TestSetThresholdColumnResetsToMedian(t *testing.T) {
	fs, err := NewFilterState(filterTable(t))
	require.NoError(t, err)

	require.NoError(t, fs.SetThresholdColumn("packet_size"))
	assert.Equal(t, "packet_size", fs.ThresholdColumn())
	assert.Equal(t, 310.0, fs.Threshold())

	assert.Error(t, fs.SetThresholdColumn("protocol_type"))
	assert.Error(t, fs.SetThresholdColumn("missing"))
}

func TestSetThresholdDomainCheck(t *testing.T) {
	fs, err := NewFilterState(filterTable(t))
	require.NoError(t, err)

	require.NoError(t, fs.SetThreshold(0.5))
	assert.Equal(t, 0.5, fs.Threshold())

	// Domain bounds themselves are allowed.
	require.NoError(t, fs.SetThreshold(0.0))
	require.NoError(t, fs.SetThreshold(0.75))

	err = fs.SetThreshold(0.76)
	require.Error(t, err)
	assert.Equal(t, 0.75, fs.Threshold())

	assert.Error(t, fs.SetThreshold(-0.1))
}

func TestSetCategoricalClearSemantics(t *testing.T) {
	fs, err := NewFilterState(filterTable(t))
	require.NoError(t, err)

	require.NoError(t, fs.SetCategorical("protocol_type", []string{"TCP", "UDP"}))
	assert.Equal(t, 1, fs.ActiveFilterCount())
	set := fs.Categorical("protocol_type")
	assert.Contains(t, set, "TCP")
	assert.NotContains(t, set, "ICMP")

	// Empty selection clears the filter, as does selecting every value.
	require.NoError(t, fs.SetCategorical("protocol_type", nil))
	assert.Equal(t, 0, fs.ActiveFilterCount())

	require.NoError(t, fs.SetCategorical("protocol_type", []string{"ICMP", "TCP", "UDP"}))
	assert.Equal(t, 0, fs.ActiveFilterCount())

	assert.Error(t, fs.SetCategorical("packet_size", []string{"150"}))
	assert.Error(t, fs.SetCategorical("missing", []string{"x"}))
}

func TestSetRangeSemantics(t *testing.T) {
	fs, err := NewFilterState(filterTable(t))
	require.NoError(t, err)

	require.NoError(t, fs.SetRange("packet_size", 200, 500))
	r, ok := fs.RangeFor("packet_size")
	require.True(t, ok)
	assert.True(t, r.Contains(200))
	assert.True(t, r.Contains(500))
	assert.False(t, r.Contains(199.99))

	// A range spanning the whole column domain clears the filter.
	require.NoError(t, fs.SetRange("packet_size", 150, 620))
	_, ok = fs.RangeFor("packet_size")
	assert.False(t, ok)

	assert.Error(t, fs.SetRange("packet_size", 500, 200))
	assert.Error(t, fs.SetRange("protocol_type", 0, 1))
}

func TestResetKeepsTargetAndThreshold(t *testing.T) {
	fs, err := NewFilterState(filterTable(t))
	require.NoError(t, err)

	require.NoError(t, fs.SetThreshold(0.6))
	require.NoError(t, fs.SetCategorical("protocol_type", []string{"TCP"}))
	require.NoError(t, fs.SetRange("packet_size", 200, 500))
	require.Equal(t, 2, fs.ActiveFilterCount())

	fs.Reset()
	assert.Equal(t, 0, fs.ActiveFilterCount())
	assert.Equal(t, "attack_detected", fs.Target())
	assert.Equal(t, 0.6, fs.Threshold())
}

func TestCloneIsIndependent(t *testing.T) {
	fs, err := NewFilterState(filterTable(t))
	require.NoError(t, err)
	require.NoError(t, fs.SetCategorical("protocol_type", []string{"TCP"}))

	clone := fs.Clone()
	require.NoError(t, clone.SetCategorical("protocol_type", []string{"UDP"}))
	require.NoError(t, clone.SetRange("packet_size", 200, 500))

	set := fs.Categorical("protocol_type")
	assert.Contains(t, set, "TCP")
	assert.NotContains(t, set, "UDP")
	_, ok := fs.RangeFor("packet_size")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	fs, err := NewFilterState(filterTable(t))
	require.NoError(t, err)
	require.NoError(t, fs.SetCategorical("protocol_type", []string{"UDP", "TCP"}))
	require.NoError(t, fs.SetRange("packet_size", 200, 500))

	desc := fs.Describe()
	assert.Contains(t, desc, "target=attack_detected")
	assert.Contains(t, desc, "fail_ratio>=0.33")
	assert.Contains(t, desc, "protocol_type in {TCP,UDP}")
	assert.Contains(t, desc, "packet_size in [200, 500]")
}
