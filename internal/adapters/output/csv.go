// Package output provides export adapters for the dashboard: the filtered
// subset as CSV, the aggregate summary as JSON, and the optional metrics
// endpoint for the running session.
package output

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/maleeper/cyberscope/internal/domain"
)

// CSVExporter writes the currently filtered record subset, raw cell for raw
// cell, so reloading the export reproduces the in-memory filtered table.
type CSVExporter struct {
	path string
}

func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

func (e *CSVExporter) Path() string { return e.path }

func (e *CSVExporter) Export(ctx context.Context, table *domain.Table, view *domain.ViewSummary) error {
	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create export %s: %w", e.path, err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 1<<20)
	cw := csv.NewWriter(bw)

	if err := cw.Write(table.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range view.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(table.Row(r)); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}

	log.Info().
		Str("path", e.path).
		Int("rows", len(view.Rows)).
		Msg("Filtered subset exported")
	return nil
}
