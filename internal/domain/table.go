package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies a dataset column for filtering and aggregation.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "categorical"
}

type Column struct {
	Name string
	Kind Kind
}

// Table is the immutable, columnar in-memory dataset. Raw cell text is kept
// for every column so an export reproduces the source file byte for byte;
// numeric columns additionally carry parsed values (NaN for missing cells).
type Table struct {
	cols  []Column
	index map[string]int
	raw   [][]string
	nums  map[string][]float64
	rows  int
}

// BuildTable infers the schema from raw rows and assembles a Table. A column
// is numeric when every non-empty cell parses as a float and at least one
// cell is non-empty; everything else is categorical.
func BuildTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("build table: empty header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("build table: blank column name at position %d", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("build table: duplicate column %q", name)
		}
		index[name] = i
	}

	raw := make([][]string, len(header))
	for i := range raw {
		raw[i] = make([]string, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("build table: row %d has %d fields, want %d", r+1, len(row), len(header))
		}
		for c, cell := range row {
			raw[c][r] = cell
		}
	}

	t := &Table{
		cols:  make([]Column, len(header)),
		index: index,
		raw:   raw,
		nums:  make(map[string][]float64),
		rows:  len(rows),
	}

	for c, name := range header {
		name = strings.TrimSpace(name)
		vals, numeric := parseNumericColumn(raw[c])
		kind := KindCategorical
		if numeric {
			kind = KindNumeric
			t.nums[name] = vals
		}
		t.cols[c] = Column{Name: name, Kind: kind}
	}
	return t, nil
}

func parseNumericColumn(cells []string) ([]float64, bool) {
	vals := make([]float64, len(cells))
	seen := false
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			vals[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
		seen = true
	}
	return vals, seen
}

func (t *Table) NumRows() int      { return t.rows }
func (t *Table) Columns() []Column { return t.cols }

func (t *Table) Header() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) ColumnKind(name string) (Kind, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.cols[i].Kind, true
}

// Raw returns the untouched cell text of a column.
func (t *Table) Raw(name string) []string {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.raw[i]
}

// Floats returns the parsed values of a numeric column, nil otherwise.
func (t *Table) Floats(name string) []float64 {
	return t.nums[name]
}

// Row materializes one record in header order.
func (t *Table) Row(r int) []string {
	out := make([]string, len(t.cols))
	for c := range t.cols {
		out[c] = t.raw[c][r]
	}
	return out
}

func (t *Table) CategoricalColumns() []string {
	var out []string
	for _, c := range t.cols {
		if c.Kind == KindCategorical {
			out = append(out, c.Name)
		}
	}
	return out
}

func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.cols {
		if c.Kind == KindNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// Values returns the sorted distinct non-missing values of a column.
func (t *Table) Values(name string) []string {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	set := make(map[string]struct{})
	for _, cell := range t.raw[i] {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		set[cell] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// IsBinary reports whether a column holds exactly two distinct non-missing
// values, which makes it eligible as a target column.
func (t *Table) IsBinary(name string) bool {
	return len(t.Values(name)) == 2
}

// BinaryColumns lists every column eligible as a target.
func (t *Table) BinaryColumns() []string {
	var out []string
	for _, c := range t.cols {
		if t.IsBinary(c.Name) {
			out = append(out, c.Name)
		}
	}
	return out
}

// BinaryValues maps a binary column to 0/1 per row. Numeric {0,1} columns
// pass through; any other two-valued column maps its sorted values to 0 and
// 1. Missing cells map to 0.
func (t *Table) BinaryValues(name string) ([]int, error) {
	if !t.HasColumn(name) {
		return nil, &ConfigError{Field: "target", Value: name, Reason: "column not in dataset schema"}
	}
	if !t.IsBinary(name) {
		return nil, &ConfigError{Field: "target", Value: name, Reason: "column is not binary"}
	}

	out := make([]int, t.rows)
	if vals, ok := t.nums[name]; ok && isZeroOne(vals) {
		for r, v := range vals {
			if v == 1 {
				out[r] = 1
			}
		}
		return out, nil
	}

	distinct := t.Values(name)
	hi := distinct[1]
	cells := t.Raw(name)
	for r, cell := range cells {
		if cell == hi {
			out[r] = 1
		}
	}
	return out, nil
}

func isZeroOne(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

// Min returns the smallest non-missing value of a numeric column.
func (t *Table) Min(name string) float64 {
	return reduce(t.nums[name], math.Inf(1), math.Min)
}

// Max returns the largest non-missing value of a numeric column.
func (t *Table) Max(name string) float64 {
	return reduce(t.nums[name], math.Inf(-1), math.Max)
}

func reduce(vals []float64, init float64, f func(a, b float64) float64) float64 {
	out := init
	seen := false
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		out = f(out, v)
		seen = true
	}
	if !seen {
		return math.NaN()
	}
	return out
}

// Median returns the median of the non-missing values of a numeric column.
func (t *Table) Median(name string) float64 {
	vals := t.nums[name]
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid]
	}
	return (clean[mid-1] + clean[mid]) / 2
}
