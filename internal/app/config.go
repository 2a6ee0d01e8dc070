package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/maleeper/cyberscope/internal/adapters/analytics"
)

// Config is the session configuration resolved from viper (config file,
// environment, flags).
type Config struct {
	DatasetPath string

	Dimensions  []string
	HeatX       string
	HeatY       string
	HeatBins    int
	ClassColumn string

	MetricsEnabled bool
	MetricsAddr    string

	ExportPath  string
	SummaryPath string

	DeckTemplate string
	DeckStyle    string
	DeckOutput   string

	ProfileOutput string
}

// FromViper resolves the configuration against the defaults registered by
// the CLI layer.
func FromViper() Config {
	return Config{
		DatasetPath:    viper.GetString("dataset.path"),
		Dimensions:     viper.GetStringSlice("eda.dimensions"),
		HeatX:          viper.GetString("eda.heatmap.x"),
		HeatY:          viper.GetString("eda.heatmap.y"),
		HeatBins:       viper.GetInt("eda.heatmap.bins"),
		ClassColumn:    viper.GetString("eda.class_column"),
		MetricsEnabled: viper.GetBool("metrics.enabled"),
		MetricsAddr:    viper.GetString("metrics.addr"),
		ExportPath:     viper.GetString("export.csv_path"),
		SummaryPath:    viper.GetString("export.summary_path"),
		DeckTemplate:   viper.GetString("deck.template"),
		DeckStyle:      viper.GetString("deck.style"),
		DeckOutput:     viper.GetString("deck.output"),
		ProfileOutput:  viper.GetString("profile.output"),
	}
}

func (c Config) Validate() error {
	if c.DatasetPath == "" {
		return &ConfigValidationError{Field: "dataset.path", Value: c.DatasetPath, Reason: "dataset path is required"}
	}
	if c.HeatBins < 2 || c.HeatBins > 25 {
		return &ConfigValidationError{Field: "eda.heatmap.bins", Value: c.HeatBins, Reason: "must be between 2 and 25"}
	}
	if len(c.Dimensions) == 0 {
		return &ConfigValidationError{Field: "eda.dimensions", Value: c.Dimensions, Reason: "at least one dimension is required"}
	}
	return nil
}

// AnalyticsOptions translates the config into view-model options.
func (c Config) AnalyticsOptions() analytics.Options {
	return analytics.Options{
		Dimensions:  c.Dimensions,
		HeatX:       c.HeatX,
		HeatY:       c.HeatY,
		HeatBins:    c.HeatBins,
		ClassColumn: c.ClassColumn,
	}
}

type ConfigValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s = %v - %s", e.Field, e.Value, e.Reason)
}

// DatasetWatcher watches the dataset file and reloads the session when it
// changes, debounced so editors writing in multiple steps trigger one
// reload. A failed reload keeps the previous table.
type DatasetWatcher struct {
	session  *Session
	path     string
	debounce time.Duration
	onReload func()

	stopOnce sync.Once
	stopChan chan struct{}
}

type DatasetWatcherOptions struct {
	Debounce time.Duration
	OnReload func()
}

func NewDatasetWatcher(session *Session, path string, opts DatasetWatcherOptions) *DatasetWatcher {
	if opts.Debounce == 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	return &DatasetWatcher{
		session:  session,
		path:     path,
		debounce: opts.Debounce,
		onReload: opts.OnReload,
		stopChan: make(chan struct{}),
	}
}

// Start begins watching in the background. Watching the directory rather
// than the file keeps the watch alive across rename-style saves.
func (w *DatasetWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dataset watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go w.loop(ctx, watcher)
	log.Debug().Str("path", w.path).Msg("Dataset watch started")
	return nil
}

func (w *DatasetWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// A fresh timer per burst avoids resetting a timer whose
			// fire is already buffered, which would reload early.
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Dataset watch error")
		case <-timerC:
			if err := w.session.Reload(ctx); err != nil {
				log.Error().Err(err).Msg("Dataset reload failed, keeping current table")
				continue
			}
			if w.onReload != nil {
				w.onReload()
			}
		}
	}
}

func (w *DatasetWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}
