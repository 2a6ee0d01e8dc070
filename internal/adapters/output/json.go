package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/maleeper/cyberscope/internal/domain"
)

// JSONSummaryWriter serializes the view summary (counts, rates, group
// aggregates, active filter description) for downstream tooling.
type JSONSummaryWriter struct {
	writer io.Writer
	file   *os.File
	pretty bool
}

type JSONSummaryConfig struct {
	FilePath string
	Stdout   bool
	Pretty   bool
}

// NewJSONSummaryWriter creates the writer. Stdout wins over FilePath;
// with neither set the output is discarded.
func NewJSONSummaryWriter(config JSONSummaryConfig) (*JSONSummaryWriter, error) {
	var writer io.Writer
	var file *os.File

	if config.Stdout {
		writer = os.Stdout
	} else if config.FilePath != "" {
		if dir := filepath.Dir(config.FilePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create summary dir: %w", err)
			}
		}
		var err error
		file, err = os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, fmt.Errorf("create summary %s: %w", config.FilePath, err)
		}
		writer = file
	} else {
		writer = io.Discard
	}

	return &JSONSummaryWriter{writer: writer, file: file, pretty: config.Pretty}, nil
}

type summaryDocument struct {
	GeneratedAt string              `json:"generated_at"`
	Source      string              `json:"source"`
	Summary     *domain.ViewSummary `json:"summary"`
}

func (w *JSONSummaryWriter) Export(ctx context.Context, table *domain.Table, view *domain.ViewSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := summaryDocument{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      fmt.Sprintf("%d of %d sessions", view.Total, table.NumRows()),
		Summary:     view,
	}

	var (
		data []byte
		err  error
	)
	if w.pretty {
		data, err = sonic.MarshalIndent(doc, "", "  ")
	} else {
		data, err = sonic.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func (w *JSONSummaryWriter) Close() error {
	if w.file != nil {
		if err := w.file.Sync(); err != nil {
			return err
		}
		return w.file.Close()
	}
	return nil
}
