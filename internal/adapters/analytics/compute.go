// Package analytics implements the pure view-model pass of the dashboard:
// given the loaded table and the user's filter state, produce the filtered
// row set and every aggregate the tabs render. Compute has no hidden state;
// identical inputs yield identical output.
package analytics

import (
	"math"
	"sort"
	"strconv"

	"github.com/maleeper/cyberscope/internal/domain"
)

// Options selects which aggregates a dashboard tab needs. Dimensions not
// present in the dataset schema are skipped, mirroring the chart guards of
// the original dashboard.
type Options struct {
	Dimensions  []string
	HeatX       string
	HeatY       string
	HeatBins    int
	ClassColumn string
}

func DefaultOptions() Options {
	return Options{
		Dimensions:  []string{"protocol_type", "encryption_used", "unusual_time_access"},
		HeatX:       "network_packet_size",
		HeatY:       "login_attempts",
		HeatBins:    5,
		ClassColumn: "session_duration",
	}
}

// Compute derives the filtered view and its aggregate summaries.
//
// Filtering: a record passes when it matches every active categorical
// selection (set membership), every active numeric range (inclusive
// bounds), and sits at or above the threshold on the selected feature.
// Filters combine with logical AND. Aggregation: per requested dimension,
// group the filtered records and count attack vs benign under the target
// column, with rate = attacks / size guarded to 0 for empty groups.
func Compute(t *domain.Table, fs *domain.FilterState, opts Options) (*domain.ViewSummary, error) {
	attack, err := t.BinaryValues(fs.Target())
	if err != nil {
		return nil, err
	}

	catCols := fs.CategoricalColumns()
	catRaw := make([][]string, len(catCols))
	catSets := make([]map[string]struct{}, len(catCols))
	for i, col := range catCols {
		catRaw[i] = t.Raw(col)
		catSets[i] = fs.Categorical(col)
	}

	rangeCols := fs.RangeColumns()
	rangeVals := make([][]float64, len(rangeCols))
	rangeBounds := make([]domain.Range, len(rangeCols))
	for i, col := range rangeCols {
		rangeVals[i] = t.Floats(col)
		rangeBounds[i], _ = fs.RangeFor(col)
	}

	thresholdVals := t.Floats(fs.ThresholdColumn())
	threshold := fs.Threshold()

	rows := make([]int, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		pass := true
		for i := range catCols {
			if _, ok := catSets[i][catRaw[i][r]]; !ok {
				pass = false
				break
			}
		}
		if !pass {
			continue
		}
		for i := range rangeCols {
			v := rangeVals[i][r]
			if math.IsNaN(v) || !rangeBounds[i].Contains(v) {
				pass = false
				break
			}
		}
		if !pass {
			continue
		}
		if thresholdVals != nil {
			v := thresholdVals[r]
			if math.IsNaN(v) || v < threshold {
				continue
			}
		}
		rows = append(rows, r)
	}

	view := &domain.ViewSummary{
		Rows:            rows,
		Total:           len(rows),
		Target:          fs.Target(),
		ThresholdColumn: fs.ThresholdColumn(),
		Threshold:       threshold,
		Filters:         fs.Describe(),
		Groups:          make(map[string][]domain.GroupStat),
	}

	for _, r := range rows {
		view.Attacks += attack[r]
	}
	if view.Total > 0 {
		view.Rate = float64(view.Attacks) / float64(view.Total)
	}

	for _, dim := range opts.Dimensions {
		if !t.HasColumn(dim) {
			continue
		}
		view.Groups[dim] = groupBy(t.Raw(dim), rows, attack)
	}

	if opts.HeatBins > 0 && t.HasColumn(opts.HeatX) && t.HasColumn(opts.HeatY) {
		view.Heat = heatGrid(t, rows, attack, opts.HeatX, opts.HeatY, opts.HeatBins)
	}

	if opts.ClassColumn != "" && t.HasColumn(opts.ClassColumn) {
		if vals := t.Floats(opts.ClassColumn); vals != nil {
			view.ClassColumn = opts.ClassColumn
			view.Classes = classStats(vals, rows, attack)
		}
	}

	return view, nil
}

func groupBy(cells []string, rows []int, attack []int) []domain.GroupStat {
	byValue := make(map[string]*domain.GroupStat)
	for _, r := range rows {
		v := cells[r]
		stat, ok := byValue[v]
		if !ok {
			stat = &domain.GroupStat{Value: v}
			byValue[v] = stat
		}
		stat.Sessions++
		stat.Attacks += attack[r]
	}

	out := make([]domain.GroupStat, 0, len(byValue))
	for _, stat := range byValue {
		if stat.Sessions > 0 {
			stat.Rate = float64(stat.Attacks) / float64(stat.Sessions)
		}
		out = append(out, *stat)
	}
	sortGroups(out)
	return out
}

// sortGroups orders numerically when every group value parses as a number,
// lexically otherwise, so output is stable for identical inputs.
func sortGroups(groups []domain.GroupStat) {
	numeric := len(groups) > 0
	for _, g := range groups {
		if _, err := strconv.ParseFloat(g.Value, 64); err != nil {
			numeric = false
			break
		}
	}
	if numeric {
		sort.Slice(groups, func(i, j int) bool {
			a, _ := strconv.ParseFloat(groups[i].Value, 64)
			b, _ := strconv.ParseFloat(groups[j].Value, 64)
			return a < b
		})
		return
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
}

func classStats(vals []float64, rows []int, attack []int) []domain.ClassStat {
	byClass := map[int][]float64{0: nil, 1: nil}
	for _, r := range rows {
		v := vals[r]
		if math.IsNaN(v) {
			continue
		}
		byClass[attack[r]] = append(byClass[attack[r]], v)
	}

	labels := map[int]string{0: "benign", 1: "attack"}
	out := make([]domain.ClassStat, 0, 2)
	for _, class := range []int{0, 1} {
		sample := byClass[class]
		stat := domain.ClassStat{Class: labels[class], Sessions: len(sample)}
		if len(sample) > 0 {
			sort.Float64s(sample)
			stat.Min = sample[0]
			stat.Max = sample[len(sample)-1]
			sum := 0.0
			for _, v := range sample {
				sum += v
			}
			stat.Mean = sum / float64(len(sample))
			mid := len(sample) / 2
			if len(sample)%2 == 1 {
				stat.Median = sample[mid]
			} else {
				stat.Median = (sample[mid-1] + sample[mid]) / 2
			}
		}
		out = append(out, stat)
	}
	return out
}
