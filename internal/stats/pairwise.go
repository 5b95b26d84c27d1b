package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dashloom/dashloom-cli/internal/dataset"
)

// Correlation computes the Pearson correlation between two numeric columns
// over the rows where both are non-null. ok is false when fewer than two
// overlapping pairs exist or the result is undefined (e.g. a constant
// column).
func Correlation(x, y *dataset.Column) (float64, bool) {
	n := x.Len()
	if y.Len() < n {
		n = y.Len()
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		xv, xok := x.FloatAt(i)
		yv, yok := y.FloatAt(i)
		if xok && yok {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	if len(xs) < 2 {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}

// EtaSquared measures how much of a numeric column's variance is explained
// by a categorical grouping: between-group sum of squares over total sum of
// squares. Rows where either value is null are excluded. ok is false with
// fewer than two non-empty groups; a zero total sum of squares yields
// exactly 0.
func EtaSquared(cat, num *dataset.Column) (float64, bool) {
	n := cat.Len()
	if num.Len() < n {
		n = num.Len()
	}
	type group struct {
		sum float64
		n   int
	}
	groups := make(map[string]*group)
	var all []float64
	for i := 0; i < n; i++ {
		v, ok := num.FloatAt(i)
		if !ok || cat.Null[i] {
			continue
		}
		key := cat.CellString(i)
		g := groups[key]
		if g == nil {
			g = &group{}
			groups[key] = g
		}
		g.sum += v
		g.n++
		all = append(all, v)
	}
	if len(groups) < 2 || len(all) == 0 {
		return 0, false
	}

	grand := stat.Mean(all, nil)
	ssTotal := 0.0
	for _, v := range all {
		d := v - grand
		ssTotal += d * d
	}
	if ssTotal == 0 {
		return 0.0, true
	}
	ssBetween := 0.0
	for _, g := range groups {
		d := g.sum/float64(g.n) - grand
		ssBetween += float64(g.n) * d * d
	}
	return ssBetween / ssTotal, true
}

// Pair is a correlated column pair.
type Pair struct {
	A, B string
	R    float64
}

// CorrelationMatrix computes Pearson correlations for every pair among the
// named numeric columns. The matrix is symmetric with a unit diagonal;
// non-computable entries hold NaN.
func CorrelationMatrix(ds *dataset.Dataset, names []string) [][]float64 {
	m := make([][]float64, len(names))
	cols := make([]*dataset.Column, len(names))
	for i, name := range names {
		cols[i], _ = ds.Column(name)
		m[i] = make([]float64, len(names))
	}
	for i := range names {
		m[i][i] = 1
		for j := i + 1; j < len(names); j++ {
			r := math.NaN()
			if cols[i] != nil && cols[j] != nil {
				if v, ok := Correlation(cols[i], cols[j]); ok {
					r = v
				}
			}
			m[i][j], m[j][i] = r, r
		}
	}
	return m
}

// TopPairs lists the strongest correlations from a matrix, ordered by
// absolute value descending, at most n entries. NaN entries are skipped.
func TopPairs(names []string, matrix [][]float64, n int) []Pair {
	var pairs []Pair
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			r := matrix[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, Pair{A: names[i], B: names[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].R) > math.Abs(pairs[b].R)
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
