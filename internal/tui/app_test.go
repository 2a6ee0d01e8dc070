package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtraDimsPreservesConfigurationOrder(t *testing.T) {
	configured := []string{
		"protocol_type",
		"login_attempts",
		"encryption_used",
		"browser_type",
		"unusual_time_access",
		"failed_logins",
	}

	got := extraDims(configured)

	assert.Equal(t, []string{"login_attempts", "browser_type", "failed_logins"}, got)
	assert.Equal(t, got, extraDims(configured))
}

func TestExtraDimsEmptyWhenOnlyDedicatedCharts(t *testing.T) {
	configured := []string{"protocol_type", "encryption_used", "unusual_time_access"}
	assert.Empty(t, extraDims(configured))
}
