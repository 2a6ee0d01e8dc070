// Package ports defines the interfaces between the core view-model logic
// and the infrastructure adapters (dataset input, export output, metrics),
// following the ports and adapters pattern.
package ports

import (
	"context"

	"github.com/maleeper/cyberscope/internal/domain"
)

// DatasetSource loads the processed dataset into an immutable Table.
//
// Implementations:
//   - input.CSVLoader: delimited text file read once at startup
type DatasetSource interface {
	// Load reads the full dataset. A missing or unreadable source is a
	// fatal startup error for the dashboard.
	Load(ctx context.Context) (*domain.Table, error)

	// Name identifies the source for logs and the status bar.
	Name() string
}

// Exporter writes the currently filtered subset to an external format.
//
// Implementations:
//   - output.CSVExporter: row-for-row copy of the filtered records
//   - output.JSONSummaryWriter: aggregates and filter description
type Exporter interface {
	Export(ctx context.Context, table *domain.Table, view *domain.ViewSummary) error
}

// ViewObserver is notified after every successful recompute. Used by the
// TUI to redraw and by metric collectors to record the pass.
type ViewObserver interface {
	OnView(view *domain.ViewSummary)
}

// MetricsCollector receives session observability signals.
//
// Thread Safety: implementations must tolerate calls from the watch
// goroutine as well as the UI loop.
type MetricsCollector interface {
	ObserveRecompute(seconds float64)
	SetFilteredRows(n int)
	IncrementExports()
	IncrementReloads()
}
