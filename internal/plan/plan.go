// Package plan selects and describes the charts worth rendering for a
// dataset: it ranks columns and column pairs by how informative they are,
// divides fixed plot budgets between competing chart families, and emits
// renderer-agnostic plot specifications.
package plan

// PlotKind identifies a chart family.
type PlotKind int

const (
	Histogram PlotKind = iota
	BarChart
	Scatter
	BoxPlot
	GroupedBar
	Heatmap
)

func (k PlotKind) String() string {
	switch k {
	case Histogram:
		return "histogram"
	case BarChart:
		return "bar_chart"
	case Scatter:
		return "scatter"
	case BoxPlot:
		return "box_plot"
	case GroupedBar:
		return "grouped_bar"
	case Heatmap:
		return "heatmap"
	default:
		return "unknown"
	}
}

// KindFromString maps a chart-type name to its PlotKind. ok is false for
// unknown names.
func KindFromString(s string) (PlotKind, bool) {
	switch s {
	case "histogram":
		return Histogram, true
	case "bar_chart":
		return BarChart, true
	case "scatter":
		return Scatter, true
	case "box_plot":
		return BoxPlot, true
	case "grouped_bar":
		return GroupedBar, true
	case "heatmap":
		return Heatmap, true
	default:
		return 0, false
	}
}

// PlotSpec is one planned chart, independent of any rendering backend.
// Description summarizes the underlying statistics in prose so downstream
// commentary does not need to recompute them.
type PlotSpec struct {
	Kind        PlotKind `yaml:"kind"`
	Title       string   `yaml:"title"`
	Columns     []string `yaml:"columns"`
	Description string   `yaml:"description"`
}

// Limits holds the planning budgets and thresholds.
type Limits struct {
	MaxUnivariate    int
	MaxBivariate     int
	MaxBars          int
	MinCorrelation   float64
	NumericalSlots   int
	CategoricalSlots int
}

// DefaultLimits returns the standard budgets: nine plots per phase, split
// five numerical / four categorical for univariate, bars capped at fifteen,
// and scatter pairs requiring |r| >= 0.3.
func DefaultLimits() Limits {
	return Limits{
		MaxUnivariate:    9,
		MaxBivariate:     9,
		MaxBars:          15,
		MinCorrelation:   0.3,
		NumericalSlots:   5,
		CategoricalSlots: 4,
	}
}
