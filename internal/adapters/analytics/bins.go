package analytics

import (
	"fmt"
	"math"

	"github.com/maleeper/cyberscope/internal/domain"
)

// binner cuts a value range into n equal-width intervals over the filtered
// rows, the same cut the original heat map applies.
type binner struct {
	lo    float64
	width float64
	n     int
}

func newBinner(vals []float64, rows []int, n int) (binner, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		v := vals[r]
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if math.IsInf(lo, 1) {
		return binner{}, false
	}
	width := (hi - lo) / float64(n)
	if width == 0 {
		// Degenerate column: everything lands in bin 0.
		width = 1
	}
	return binner{lo: lo, width: width, n: n}, true
}

func (b binner) index(v float64) int {
	i := int((v - b.lo) / b.width)
	if i < 0 {
		i = 0
	}
	if i >= b.n {
		i = b.n - 1
	}
	return i
}

func (b binner) label(i int) string {
	lo := b.lo + float64(i)*b.width
	return fmt.Sprintf("%.0f-%.0f", lo, lo+b.width)
}

// heatGrid buckets two numeric features into an n x n grid and computes the
// attack rate per cell. Cells with no sessions report a rate of 0.
func heatGrid(t *domain.Table, rows []int, attack []int, xCol, yCol string, n int) []domain.HeatCell {
	xVals := t.Floats(xCol)
	yVals := t.Floats(yCol)
	if xVals == nil || yVals == nil {
		return nil
	}
	xb, ok := newBinner(xVals, rows, n)
	if !ok {
		return nil
	}
	yb, ok := newBinner(yVals, rows, n)
	if !ok {
		return nil
	}

	sessions := make([]int, n*n)
	attacks := make([]int, n*n)
	for _, r := range rows {
		x, y := xVals[r], yVals[r]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		cell := yb.index(y)*n + xb.index(x)
		sessions[cell]++
		attacks[cell] += attack[r]
	}

	out := make([]domain.HeatCell, 0, n*n)
	for yi := 0; yi < n; yi++ {
		for xi := 0; xi < n; xi++ {
			cell := domain.HeatCell{
				XBin:     xi,
				YBin:     yi,
				XLabel:   xb.label(xi),
				YLabel:   yb.label(yi),
				Sessions: sessions[yi*n+xi],
			}
			if cell.Sessions > 0 {
				cell.Rate = float64(attacks[yi*n+xi]) / float64(cell.Sessions)
			}
			out = append(out, cell)
		}
	}
	return out
}
