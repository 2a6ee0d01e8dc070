package app

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maleeper/cyberscope/internal/adapters/analytics"
	"github.com/maleeper/cyberscope/internal/adapters/input"
)

func validConfig() Config {
	return Config{
		DatasetPath: "./testdata/intrusion_sample.csv",
		Dimensions:  []string{"protocol_type"},
		HeatX:       "network_packet_size",
		HeatY:       "login_attempts",
		HeatBins:    5,
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing dataset path", func(c *Config) { c.DatasetPath = "" }, "dataset.path"},
		{"too few bins", func(c *Config) { c.HeatBins = 1 }, "eda.heatmap.bins"},
		{"too many bins", func(c *Config) { c.HeatBins = 26 }, "eda.heatmap.bins"},
		{"no dimensions", func(c *Config) { c.Dimensions = nil }, "eda.dimensions"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := validConfig()
			tc.mutate(&config)

			err := config.Validate()
			require.Error(t, err)
			var vErr *ConfigValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestDatasetWatcherDebouncesWriteBursts(t *testing.T) {
	data, err := os.ReadFile(sampleDataset)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loader := input.NewCSVLoader(path, input.CSVOptions{})
	session := NewSession(loader, analytics.DefaultOptions())
	require.NoError(t, session.Open(context.Background()))

	var reloads atomic.Int32
	watcher := NewDatasetWatcher(session, path, DatasetWatcherOptions{
		Debounce: 100 * time.Millisecond,
		OnReload: func() { reloads.Add(1) },
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer watcher.Stop()

	// An editor-style burst of writes within the debounce window.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, data, 0644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return reloads.Load() >= 1 },
		2*time.Second, 25*time.Millisecond)

	// The burst settles into exactly one reload, never a second stale fire.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), reloads.Load())
}

func TestConfigAnalyticsOptions(t *testing.T) {
	config := validConfig()
	opts := config.AnalyticsOptions()

	assert.Equal(t, config.Dimensions, opts.Dimensions)
	assert.Equal(t, config.HeatX, opts.HeatX)
	assert.Equal(t, config.HeatBins, opts.HeatBins)
}
