package plan

import (
	"strings"
	"testing"

	"github.com/dashloom/dashloom-cli/internal/dataset"
)

func TestBuildBivariateNoNumericColumns(t *testing.T) {
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		catCol("c", "a", "b", "a"),
	}}
	if specs := BuildBivariate(ds, detectInfo(ds), DefaultLimits()); len(specs) != 0 {
		t.Errorf("expected no plots without numeric columns, got %+v", specs)
	}
}

func TestBuildBivariateHeatmapNeedsTwoNumeric(t *testing.T) {
	vals := make([]float64, 25)
	for i := range vals {
		vals[i] = float64(i)
	}
	one := &dataset.Dataset{Name: "t", Columns: []dataset.Column{numCol("x", vals...)}}
	for _, s := range BuildBivariate(one, detectInfo(one), DefaultLimits()) {
		if s.Kind == Heatmap {
			t.Error("heatmap planned with a single numeric column")
		}
	}

	vals2 := make([]float64, 25)
	for i := range vals2 {
		vals2[i] = float64(i * 2)
	}
	two := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		numCol("x", vals...), numCol("y", vals2...),
	}}
	specs := BuildBivariate(two, detectInfo(two), DefaultLimits())
	if len(specs) == 0 || specs[0].Kind != Heatmap {
		t.Fatalf("heatmap must come first, got %+v", specs)
	}
	if !strings.Contains(specs[0].Description, "Top correlated pairs:") {
		t.Errorf("heatmap description = %q", specs[0].Description)
	}
	if !strings.Contains(specs[0].Description, "x & y: r = 1.00") {
		t.Errorf("heatmap description = %q", specs[0].Description)
	}
}

func TestBuildBivariateScatterAndGroupedBar(t *testing.T) {
	n := 24
	xs := make([]float64, n)
	ys := make([]float64, n)
	cat := make([]string, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = float64(i)*2 + 1
		if i < n/2 {
			cat[i] = "low"
		} else {
			cat[i] = "high"
		}
	}
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		numCol("x", xs...), numCol("y", ys...), catCol("band", cat...),
	}}
	specs := BuildBivariate(ds, detectInfo(ds), DefaultLimits())

	var heat, scatter, grouped int
	for _, s := range specs {
		switch s.Kind {
		case Heatmap:
			heat++
		case Scatter:
			scatter++
			if !strings.Contains(s.Description, "Pearson correlation r = 1.00") {
				t.Errorf("scatter description = %q", s.Description)
			}
			if s.Title != "x vs y" {
				t.Errorf("scatter title = %q", s.Title)
			}
		case GroupedBar:
			grouped++
			if !strings.Contains(s.Description, "Eta-squared = ") {
				t.Errorf("grouped bar description = %q", s.Description)
			}
			if !strings.Contains(s.Description, "Top categories: high, low.") {
				t.Errorf("grouped bar description = %q", s.Description)
			}
		}
	}
	if heat != 1 || scatter != 1 || grouped != 2 {
		t.Errorf("plan = heat %d, scatter %d, grouped %d; want 1/1/2", heat, scatter, grouped)
	}
	if len(specs) > DefaultLimits().MaxBivariate {
		t.Errorf("plan exceeds budget: %d", len(specs))
	}
}

func TestBuildBivariateWeakCorrelationSkipsScatter(t *testing.T) {
	// x and y engineered to be uncorrelated
	xs := []float64{1, 2, 3, 4, 1, 2, 3, 4, 1, 2, 3, 4, 1, 2, 3, 4, 1, 2, 3, 4, 1, 2, 3, 4}
	ys := []float64{1, -1, 1, -1, -1, 1, -1, 1, 1, -1, 1, -1, -1, 1, -1, 1, 1, -1, 1, -1, -1, 1, -1, 1}
	// widen cardinality so both stay numerical
	for i := range xs {
		xs[i] += float64(i) * 0.001
		ys[i] += float64(i) * 0.001
	}
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		numCol("x", xs...), numCol("y", ys...),
	}}
	specs := BuildBivariate(ds, detectInfo(ds), DefaultLimits())
	for _, s := range specs {
		if s.Kind == Scatter {
			t.Errorf("scatter planned below correlation threshold: %+v", s)
		}
	}
}
