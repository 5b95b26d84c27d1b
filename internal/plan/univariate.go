package plan

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dashloom/dashloom-cli/internal/dataset"
	"github.com/dashloom/dashloom-cli/internal/schema"
	"github.com/dashloom/dashloom-cli/internal/stats"
)

// BuildUnivariate plans distribution charts for the most interesting
// columns: histograms for numeric columns ranked by variance, bar charts for
// categorical columns ranked by cardinality. The total is capped by
// lim.MaxUnivariate, split between the two families with surplus donation.
func BuildUnivariate(ds *dataset.Dataset, info schema.Info, lim Limits) []PlotSpec {
	logger := zap.L().Named("plan")

	numRanked := RankNumericalByVariance(ds, info.NumericalCols)
	catRanked := RankCategoricalByUnique(ds, info.CategoricalCols)

	nNum, nCat := AllocateSlots(
		len(numRanked), lim.NumericalSlots,
		len(catRanked), lim.CategoricalSlots,
		lim.MaxUnivariate,
	)

	specs := make([]PlotSpec, 0, nNum+nCat)
	for _, name := range numRanked[:nNum] {
		col, _ := ds.Column(name)
		spec, ok := histogramSpec(col)
		if !ok {
			logger.Warn("skipping histogram", zap.String("column", name))
			continue
		}
		specs = append(specs, spec)
	}
	for _, name := range catRanked[:nCat] {
		col, _ := ds.Column(name)
		spec, ok := barChartSpec(col)
		if !ok {
			logger.Warn("skipping bar chart", zap.String("column", name))
			continue
		}
		specs = append(specs, spec)
	}
	return specs
}

func histogramSpec(col *dataset.Column) (PlotSpec, bool) {
	s, ok := stats.Summarize(col)
	if !ok {
		return PlotSpec{}, false
	}
	desc := fmt.Sprintf(
		"Histogram of '%s'. Mean=%.4g, Median=%.4g, Std=%.4g, Min=%.4g, Max=%.4g.",
		col.Name, s.Mean, s.Median, s.Std, s.Min, s.Max,
	)
	return PlotSpec{
		Kind:        Histogram,
		Title:       col.Name,
		Columns:     []string{col.Name},
		Description: desc,
	}, true
}

func barChartSpec(col *dataset.Column) (PlotSpec, bool) {
	s, ok := stats.SummarizeCategorical(col, 0)
	if !ok {
		return PlotSpec{}, false
	}
	desc := fmt.Sprintf(
		"Bar chart of '%s'. Unique values=%d, Mode='%s', Mode frequency=%d.",
		col.Name, s.Unique, s.Mode, s.ModeN,
	)
	return PlotSpec{
		Kind:        BarChart,
		Title:       col.Name,
		Columns:     []string{col.Name},
		Description: desc,
	}, true
}
