package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dashloom/dashloom-cli/internal/dataset"
)

// NumericSummary describes the distribution of one numeric column. Values
// are unrounded; presentation layers round for display.
type NumericSummary struct {
	Count    int
	Mean     float64
	Median   float64
	Std      float64
	Min      float64
	Max      float64
	Q25      float64
	Q75      float64
	Skewness float64
}

// Summarize computes the numeric summary over a column's non-null values.
// ok is false when the column has no non-null values or is not numeric.
func Summarize(col *dataset.Column) (NumericSummary, bool) {
	vals := col.NonNullFloats()
	if len(vals) == 0 {
		return NumericSummary{}, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s := NumericSummary{
		Count:  len(vals),
		Mean:   stat.Mean(vals, nil),
		Median: quantile(sorted, 0.5),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q25:    quantile(sorted, 0.25),
		Q75:    quantile(sorted, 0.75),
	}
	if len(vals) > 1 {
		s.Std = stat.StdDev(vals, nil)
		s.Skewness = stat.Skew(vals, nil)
	}
	return s, true
}

// Variance returns the sample variance of a column's non-null values. ok is
// false when fewer than two values are present, since a spread cannot be
// measured from one point.
func Variance(col *dataset.Column) (float64, bool) {
	vals := col.NonNullFloats()
	if len(vals) < 2 {
		return 0, false
	}
	v := stat.Variance(vals, nil)
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// CategoricalSummary describes the value distribution of a categorical
// column.
type CategoricalSummary struct {
	Count   int
	Unique  int
	Mode    string
	ModeN   int
	TopVals []ValueCount
}

// ValueCount is one value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// SummarizeCategorical tallies a column's non-null values and reports the
// mode plus the top n values by frequency (ties broken by first appearance).
func SummarizeCategorical(col *dataset.Column, topN int) (CategoricalSummary, bool) {
	counts := make(map[string]int)
	var order []string
	total := 0
	for i := 0; i < col.Len(); i++ {
		if col.Null[i] {
			continue
		}
		v := col.CellString(i)
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return CategoricalSummary{}, false
	}

	ranked := make([]ValueCount, 0, len(order))
	for _, v := range order {
		ranked = append(ranked, ValueCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return CategoricalSummary{
		Count:   total,
		Unique:  len(order),
		Mode:    ranked[0].Value,
		ModeN:   ranked[0].Count,
		TopVals: ranked,
	}, true
}

// quantile interpolates linearly between order statistics of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
