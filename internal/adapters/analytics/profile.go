package analytics

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/maleeper/cyberscope/internal/domain"
)

// ColumnProfile is one row of the dataset profiling report.
type ColumnProfile struct {
	Name     string
	Kind     string
	Distinct int
	Missing  int

	// Numeric columns only.
	Min    float64
	Max    float64
	Mean   float64
	Median float64

	// Categorical columns only: most frequent values with counts.
	TopValues []ValueCount
}

type ValueCount struct {
	Value string
	Count int
}

const topValueLimit = 5

// Profile computes per-column statistics over the full dataset.
func Profile(t *domain.Table) []ColumnProfile {
	out := make([]ColumnProfile, 0, len(t.Columns()))
	for _, col := range t.Columns() {
		p := ColumnProfile{
			Name:     col.Name,
			Kind:     col.Kind.String(),
			Distinct: len(t.Values(col.Name)),
		}
		for _, cell := range t.Raw(col.Name) {
			if strings.TrimSpace(cell) == "" {
				p.Missing++
			}
		}

		if col.Kind == domain.KindNumeric {
			p.Min = t.Min(col.Name)
			p.Max = t.Max(col.Name)
			p.Median = t.Median(col.Name)
			p.Mean = mean(t.Floats(col.Name))
		} else {
			p.TopValues = topValues(t.Raw(col.Name))
		}
		out = append(out, p)
	}
	return out
}

func mean(vals []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func topValues(cells []string) []ValueCount {
	counts := make(map[string]int)
	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		counts[cell]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > topValueLimit {
		out = out[:topValueLimit]
	}
	return out
}

var reportTemplate = template.Must(template.New("profile").Funcs(template.FuncMap{
	"fmtFloat": func(v float64) string {
		if math.IsNaN(v) {
			return "-"
		}
		return fmt.Sprintf("%.3f", v)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: monospace; background: #0a0a0a; color: #e5e5e5; margin: 2em; }
h1 { color: #00ff41; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #1a3a1a; padding: 6px 10px; text-align: left; }
th { color: #00ff41; }
.muted { color: #707070; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="muted">{{.Rows}} sessions · {{.Cols}} columns · generated {{.Generated}}</p>
<table>
<tr><th>Column</th><th>Kind</th><th>Distinct</th><th>Missing</th><th>Min</th><th>Max</th><th>Mean</th><th>Median</th><th>Top values</th></tr>
{{range .Profiles}}
<tr>
<td>{{.Name}}</td>
<td>{{.Kind}}</td>
<td>{{.Distinct}}</td>
<td>{{.Missing}}</td>
{{if eq .Kind "numeric"}}
<td>{{fmtFloat .Min}}</td><td>{{fmtFloat .Max}}</td><td>{{fmtFloat .Mean}}</td><td>{{fmtFloat .Median}}</td><td class="muted">-</td>
{{else}}
<td class="muted">-</td><td class="muted">-</td><td class="muted">-</td><td class="muted">-</td>
<td>{{range .TopValues}}{{.Value}} ({{.Count}}) {{end}}</td>
{{end}}
</tr>
{{end}}
</table>
</body>
</html>
`))

// WriteReport renders the profiling report as a standalone HTML page.
func WriteReport(w io.Writer, title string, t *domain.Table) error {
	data := struct {
		Title     string
		Rows      int
		Cols      int
		Generated string
		Profiles  []ColumnProfile
	}{
		Title:     title,
		Rows:      t.NumRows(),
		Cols:      len(t.Columns()),
		Generated: time.Now().Format(time.RFC1123),
		Profiles:  Profile(t),
	}
	return reportTemplate.Execute(w, data)
}
