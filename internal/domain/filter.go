package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ConfigError reports an invalid filter or dashboard configuration. It is
// raised at set time so bad selections never reach a render pass.
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s = %v - %s", e.Field, e.Value, e.Reason)
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterState holds the user's current view constraints: target column,
// threshold feature and value, categorical selections, and numeric ranges.
// Every setter validates against the dataset schema and mutates in-memory
// state only; the UI layer owns mutation and triggers recomputation.
type FilterState struct {
	table *Table

	target          string
	thresholdColumn string
	threshold       float64

	categorical map[string]map[string]struct{}
	ranges      map[string]Range
}

const (
	DefaultTarget          = "attack_detected"
	DefaultThresholdColumn = "fail_ratio"
)

// NewFilterState builds the default state for a dataset: the conventional
// target and threshold columns when present, otherwise the first eligible
// ones, with the threshold preset to the column median.
func NewFilterState(t *Table) (*FilterState, error) {
	fs := &FilterState{
		table:       t,
		categorical: make(map[string]map[string]struct{}),
		ranges:      make(map[string]Range),
	}

	target := DefaultTarget
	if !t.IsBinary(target) {
		binary := t.BinaryColumns()
		if len(binary) == 0 {
			return nil, &ConfigError{Field: "target", Value: target, Reason: "dataset has no binary column"}
		}
		target = binary[0]
	}
	fs.target = target

	threshold := DefaultThresholdColumn
	if kind, ok := t.ColumnKind(threshold); !ok || kind != KindNumeric {
		numeric := t.NumericColumns()
		if len(numeric) == 0 {
			return nil, &ConfigError{Field: "threshold_column", Value: threshold, Reason: "dataset has no numeric column"}
		}
		threshold = numeric[0]
	}
	fs.thresholdColumn = threshold
	fs.threshold = t.Median(threshold)
	if math.IsNaN(fs.threshold) {
		fs.threshold = t.Min(threshold)
	}

	return fs, nil
}

func (fs *FilterState) Target() string          { return fs.target }
func (fs *FilterState) ThresholdColumn() string { return fs.thresholdColumn }
func (fs *FilterState) Threshold() float64      { return fs.threshold }

// SetTarget selects the binary label column used for attack metrics.
func (fs *FilterState) SetTarget(name string) error {
	if !fs.table.HasColumn(name) {
		return &ConfigError{Field: "target", Value: name, Reason: "column not in dataset schema"}
	}
	if !fs.table.IsBinary(name) {
		return &ConfigError{Field: "target", Value: name, Reason: "column is not binary"}
	}
	fs.target = name
	return nil
}

// SetThresholdColumn selects the continuous feature the threshold slider
// masks on, resetting the threshold to that column's median.
func (fs *FilterState) SetThresholdColumn(name string) error {
	kind, ok := fs.table.ColumnKind(name)
	if !ok {
		return &ConfigError{Field: "threshold_column", Value: name, Reason: "column not in dataset schema"}
	}
	if kind != KindNumeric {
		return &ConfigError{Field: "threshold_column", Value: name, Reason: "column is not numeric"}
	}
	fs.thresholdColumn = name
	fs.threshold = fs.table.Median(name)
	return nil
}

// SetThreshold sets the slider value. Values outside the column domain are
// rejected with a ConfigError so the UI can report and keep the previous
// value.
func (fs *FilterState) SetThreshold(v float64) error {
	lo, hi := fs.table.Min(fs.thresholdColumn), fs.table.Max(fs.thresholdColumn)
	if math.IsNaN(v) || v < lo || v > hi {
		return &ConfigError{
			Field:  "threshold",
			Value:  v,
			Reason: fmt.Sprintf("outside column domain [%g, %g]", lo, hi),
		}
	}
	fs.threshold = v
	return nil
}

// SetCategorical restricts a categorical column to the given values.
// Selecting every observed value (or none) clears the filter, matching the
// multiselect semantics of the dashboard sidebar.
func (fs *FilterState) SetCategorical(column string, values []string) error {
	kind, ok := fs.table.ColumnKind(column)
	if !ok {
		return &ConfigError{Field: "categorical_filter", Value: column, Reason: "column not in dataset schema"}
	}
	if kind != KindCategorical {
		return &ConfigError{Field: "categorical_filter", Value: column, Reason: "column is not categorical"}
	}

	if len(values) == 0 || coversAll(values, fs.table.Values(column)) {
		delete(fs.categorical, column)
		return nil
	}

	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	fs.categorical[column] = set
	return nil
}

func coversAll(values, all []string) bool {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	for _, v := range all {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

// SetRange restricts a numeric column to [min, max] inclusive. A range
// covering the full column domain clears the filter.
func (fs *FilterState) SetRange(column string, min, max float64) error {
	kind, ok := fs.table.ColumnKind(column)
	if !ok {
		return &ConfigError{Field: "range_filter", Value: column, Reason: "column not in dataset schema"}
	}
	if kind != KindNumeric {
		return &ConfigError{Field: "range_filter", Value: column, Reason: "column is not numeric"}
	}
	if min > max {
		return &ConfigError{Field: "range_filter", Value: column, Reason: fmt.Sprintf("min %g exceeds max %g", min, max)}
	}

	if min <= fs.table.Min(column) && max >= fs.table.Max(column) {
		delete(fs.ranges, column)
		return nil
	}
	fs.ranges[column] = Range{Min: min, Max: max}
	return nil
}

func (fs *FilterState) ClearCategorical(column string) { delete(fs.categorical, column) }
func (fs *FilterState) ClearRange(column string)       { delete(fs.ranges, column) }

// Reset drops every categorical and range filter but keeps the target and
// threshold selections.
func (fs *FilterState) Reset() {
	fs.categorical = make(map[string]map[string]struct{})
	fs.ranges = make(map[string]Range)
}

// Categorical returns the active allowed-value set for a column, nil when
// the column is unfiltered.
func (fs *FilterState) Categorical(column string) map[string]struct{} {
	return fs.categorical[column]
}

// RangeFor returns the active range filter for a column.
func (fs *FilterState) RangeFor(column string) (Range, bool) {
	r, ok := fs.ranges[column]
	return r, ok
}

func (fs *FilterState) CategoricalColumns() []string {
	out := make([]string, 0, len(fs.categorical))
	for c := range fs.categorical {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (fs *FilterState) RangeColumns() []string {
	out := make([]string, 0, len(fs.ranges))
	for c := range fs.ranges {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (fs *FilterState) ActiveFilterCount() int {
	return len(fs.categorical) + len(fs.ranges)
}

// Clone returns an independent copy so a recompute can run against a stable
// snapshot while the UI keeps mutating.
func (fs *FilterState) Clone() *FilterState {
	out := &FilterState{
		table:           fs.table,
		target:          fs.target,
		thresholdColumn: fs.thresholdColumn,
		threshold:       fs.threshold,
		categorical:     make(map[string]map[string]struct{}, len(fs.categorical)),
		ranges:          make(map[string]Range, len(fs.ranges)),
	}
	for col, set := range fs.categorical {
		cp := make(map[string]struct{}, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		out.categorical[col] = cp
	}
	for col, r := range fs.ranges {
		out.ranges[col] = r
	}
	return out
}

// Describe summarizes the active constraints for logs and export metadata.
func (fs *FilterState) Describe() string {
	parts := []string{
		fmt.Sprintf("target=%s", fs.target),
		fmt.Sprintf("%s>=%g", fs.thresholdColumn, fs.threshold),
	}
	for _, col := range fs.CategoricalColumns() {
		set := fs.categorical[col]
		vals := make([]string, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		parts = append(parts, fmt.Sprintf("%s in {%s}", col, strings.Join(vals, ",")))
	}
	for _, col := range fs.RangeColumns() {
		r := fs.ranges[col]
		parts = append(parts, fmt.Sprintf("%s in [%g, %g]", col, r.Min, r.Max))
	}
	return strings.Join(parts, "; ")
}
