package analytics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilePerColumnStats(t *testing.T) {
	table := intrusionTable(t)
	profiles := Profile(table)
	require.Len(t, profiles, len(table.Columns()))

	byName := make(map[string]ColumnProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}

	proto := byName["protocol_type"]
	assert.Equal(t, "categorical", proto.Kind)
	assert.Equal(t, 3, proto.Distinct)
	assert.Equal(t, 0, proto.Missing)
	require.NotEmpty(t, proto.TopValues)
	assert.Equal(t, "TCP", proto.TopValues[0].Value)
	assert.Equal(t, 4, proto.TopValues[0].Count)

	enc := byName["encryption_used"]
	assert.Equal(t, 1, enc.Missing)
	assert.Equal(t, 3, enc.Distinct)

	pkt := byName["network_packet_size"]
	assert.Equal(t, "numeric", pkt.Kind)
	assert.Equal(t, 150.0, pkt.Min)
	assert.Equal(t, 640.0, pkt.Max)
	assert.Empty(t, pkt.TopValues)
}

func TestProfileTopValueLimit(t *testing.T) {
	ids := byNameColumn(t)
	assert.LessOrEqual(t, len(ids.TopValues), topValueLimit)
}

func byNameColumn(t *testing.T) ColumnProfile {
	t.Helper()
	for _, p := range Profile(intrusionTable(t)) {
		if p.Name == "session_id" {
			return p
		}
	}
	t.Fatal("session_id profile missing")
	return ColumnProfile{}
}

func TestWriteReport(t *testing.T) {
	table := intrusionTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, "Sample Profile", table))

	html := buf.String()
	assert.Contains(t, html, "<title>Sample Profile</title>")
	assert.Contains(t, html, "protocol_type")
	assert.Contains(t, html, "10 sessions")
	assert.Contains(t, html, "9 columns")
}
