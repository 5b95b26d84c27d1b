package plan

import (
	"math"
	"sort"

	"github.com/dashloom/dashloom-cli/internal/dataset"
	"github.com/dashloom/dashloom-cli/internal/stats"
)

// RankNumericalByVariance orders numeric column names by descending sample
// variance. Columns whose variance cannot be computed are excluded.
func RankNumericalByVariance(ds *dataset.Dataset, names []string) []string {
	type scored struct {
		name string
		v    float64
	}
	var ranked []scored
	for _, name := range names {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		if v, ok := stats.Variance(col); ok {
			ranked = append(ranked, scored{name, v})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].v > ranked[j].v
	})
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.name
	}
	return out
}

// RankCategoricalByUnique orders categorical column names by descending
// distinct-value count.
func RankCategoricalByUnique(ds *dataset.Dataset, names []string) []string {
	type scored struct {
		name string
		n    int
	}
	var ranked []scored
	for _, name := range names {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		ranked = append(ranked, scored{name, col.UniqueCount()})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].n > ranked[j].n
	})
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.name
	}
	return out
}

// RankScatterPairs lists numeric column pairs whose |r| clears the
// threshold, ordered by descending |r|. The matrix rows/cols follow names.
func RankScatterPairs(names []string, matrix [][]float64, minCorr float64) []stats.Pair {
	if len(names) < 2 || matrix == nil {
		return nil
	}
	var pairs []stats.Pair
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			r := matrix[i][j]
			if !math.IsNaN(r) && math.Abs(r) >= minCorr {
				pairs = append(pairs, stats.Pair{A: names[i], B: names[j], R: r})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	return pairs
}

// EtaPair is a categorical/numerical pair scored by eta-squared.
type EtaPair struct {
	Cat, Num string
	Eta      float64
}

// RankGroupedBarPairs scores every categorical-vs-numerical pair by
// eta-squared and orders them descending. Non-computable pairs are skipped;
// there is no minimum threshold.
func RankGroupedBarPairs(ds *dataset.Dataset, catNames, numNames []string) []EtaPair {
	if len(catNames) == 0 || len(numNames) == 0 {
		return nil
	}
	var pairs []EtaPair
	for _, cn := range catNames {
		cat, ok := ds.Column(cn)
		if !ok {
			continue
		}
		for _, nn := range numNames {
			num, ok := ds.Column(nn)
			if !ok {
				continue
			}
			if eta, ok := stats.EtaSquared(cat, num); ok {
				pairs = append(pairs, EtaPair{Cat: cn, Num: nn, Eta: eta})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Eta > pairs[j].Eta
	})
	return pairs
}
