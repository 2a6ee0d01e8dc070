// Package input provides dataset source adapters. The dashboard reads a
// processed delimited-text dataset once at startup; the loader streams the
// file through a header-indexed CSV reader into the columnar Table.
package input

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maleeper/cyberscope/internal/domain"
)

type CSVLoader struct {
	path  string
	comma rune
}

type CSVOptions struct {
	Comma rune
}

func NewCSVLoader(path string, opts CSVOptions) *CSVLoader {
	comma := opts.Comma
	if comma == 0 {
		comma = ','
	}
	return &CSVLoader{path: path, comma: comma}
}

func (l *CSVLoader) Name() string { return filepath.Base(l.path) }

// Load reads the whole dataset into memory. Missing or unreadable files are
// returned as errors for the caller to treat as fatal.
func (l *CSVLoader) Load(ctx context.Context) (*domain.Table, error) {
	start := time.Now()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", l.path, err)
	}
	defer f.Close()

	cr := csv.NewReader(bufio.NewReaderSize(f, 1<<20))
	cr.Comma = l.comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset %s: empty file", l.path)
		}
		return nil, fmt.Errorf("read header of %s: %w", l.path, err)
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s: %w", l.path, err)
		}
		rows = append(rows, rec)
	}

	table, err := domain.BuildTable(header, rows)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", l.path, err)
	}

	log.Debug().
		Str("source", l.path).
		Int("rows", table.NumRows()).
		Int("columns", len(table.Columns())).
		Dur("elapsed", time.Since(start)).
		Msg("Dataset loaded")

	return table, nil
}
