package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dashloom/dashloom-cli/internal/dataset"
	"github.com/dashloom/dashloom-cli/internal/schema"
	"github.com/dashloom/dashloom-cli/internal/stats"
)

// BuildBivariate plans relationship charts: a correlation heatmap when at
// least two numeric columns exist, scatter plots for strongly correlated
// numeric pairs, and grouped bars for categorical-vs-numerical pairs ranked
// by eta-squared. With no numeric columns nothing is planned. The total is
// capped by lim.MaxBivariate; the heatmap consumes one slot.
func BuildBivariate(ds *dataset.Dataset, info schema.Info, lim Limits) []PlotSpec {
	if len(info.NumericalCols) == 0 {
		return nil
	}

	specs := make([]PlotSpec, 0, lim.MaxBivariate)
	remaining := lim.MaxBivariate

	var matrix [][]float64
	if len(info.NumericalCols) >= 2 {
		matrix = stats.CorrelationMatrix(ds, info.NumericalCols)
		specs = append(specs, heatmapSpec(info.NumericalCols, matrix))
		remaining--
	}

	scatterCands := RankScatterPairs(info.NumericalCols, matrix, lim.MinCorrelation)
	barCands := RankGroupedBarPairs(ds, info.CategoricalCols, info.NumericalCols)

	nScatter, nBar := allocateBivariate(len(scatterCands), len(barCands), remaining)

	for _, p := range scatterCands[:nScatter] {
		specs = append(specs, scatterSpec(p))
	}
	for _, p := range barCands[:nBar] {
		specs = append(specs, groupedBarSpec(ds, p))
	}
	return specs
}

func heatmapSpec(names []string, matrix [][]float64) PlotSpec {
	top := stats.TopPairs(names, matrix, 3)
	var desc string
	if len(top) == 0 {
		desc = "No significant correlations found."
	} else {
		lines := []string{"Top correlated pairs:"}
		for _, p := range top {
			lines = append(lines, fmt.Sprintf("  %s & %s: r = %.2f", p.A, p.B, p.R))
		}
		desc = strings.Join(lines, "\n")
	}
	cols := make([]string, len(names))
	copy(cols, names)
	return PlotSpec{
		Kind:        Heatmap,
		Title:       "Correlation Heatmap",
		Columns:     cols,
		Description: desc,
	}
}

func scatterSpec(p stats.Pair) PlotSpec {
	return PlotSpec{
		Kind:    Scatter,
		Title:   fmt.Sprintf("%s vs %s", p.A, p.B),
		Columns: []string{p.A, p.B},
		Description: fmt.Sprintf(
			"Scatter plot of %s vs %s. Pearson correlation r = %.2f.",
			p.A, p.B, p.R,
		),
	}
}

func groupedBarSpec(ds *dataset.Dataset, p EtaPair) PlotSpec {
	top := topGroupMeans(ds, p.Cat, p.Num, 5)
	return PlotSpec{
		Kind:    GroupedBar,
		Title:   fmt.Sprintf("%s vs %s", p.Cat, p.Num),
		Columns: []string{p.Cat, p.Num},
		Description: fmt.Sprintf(
			"Grouped bar chart of mean %s by %s. Eta-squared = %.3f. Top categories: %s.",
			p.Num, p.Cat, p.Eta, strings.Join(top, ", "),
		),
	}
}

// topGroupMeans lists the category values with the highest mean of the
// numeric column, descending, at most n entries.
func topGroupMeans(ds *dataset.Dataset, catName, numName string, n int) []string {
	cat, ok1 := ds.Column(catName)
	num, ok2 := ds.Column(numName)
	if !ok1 || !ok2 {
		return nil
	}
	type group struct {
		key string
		sum float64
		n   int
	}
	byKey := make(map[string]*group)
	var order []*group
	rows := cat.Len()
	if num.Len() < rows {
		rows = num.Len()
	}
	for i := 0; i < rows; i++ {
		v, ok := num.FloatAt(i)
		if !ok || cat.Null[i] {
			continue
		}
		key := cat.CellString(i)
		g := byKey[key]
		if g == nil {
			g = &group{key: key}
			byKey[key] = g
			order = append(order, g)
		}
		g.sum += v
		g.n++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].sum/float64(order[i].n) > order[j].sum/float64(order[j].n)
	})
	if len(order) > n {
		order = order[:n]
	}
	out := make([]string, len(order))
	for i, g := range order {
		out[i] = g.key
	}
	return out
}
