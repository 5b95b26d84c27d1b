package stats

import (
	"math"
	"testing"

	"github.com/dashloom/dashloom-cli/internal/dataset"
)

func numCol(name string, vals ...float64) *dataset.Column {
	return &dataset.Column{
		Name:   name,
		Kind:   dataset.KindNumeric,
		Null:   make([]bool, len(vals)),
		Floats: vals,
	}
}

func numColWithNulls(name string, vals []float64, null []bool) *dataset.Column {
	return &dataset.Column{Name: name, Kind: dataset.KindNumeric, Null: null, Floats: vals}
}

func catCol(name string, vals ...string) *dataset.Column {
	return &dataset.Column{
		Name:    name,
		Kind:    dataset.KindString,
		Null:    make([]bool, len(vals)),
		Strings: vals,
	}
}

// pearson recomputes the correlation independently of the implementation.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	var sx, sy float64
	for i := range x {
		sx += x[i]
		sy += y[i]
	}
	mx, my := sx/n, sy/n
	var num, dx, dy float64
	for i := range x {
		num += (x[i] - mx) * (y[i] - my)
		dx += (x[i] - mx) * (x[i] - mx)
		dy += (y[i] - my) * (y[i] - my)
	}
	return num / math.Sqrt(dx*dy)
}

func TestCorrelationMatchesReference(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 8}
	ys := []float64{2, 1, 4, 3, 7, 9}
	r, ok := Correlation(numCol("x", xs...), numCol("y", ys...))
	if !ok {
		t.Fatal("correlation not computed")
	}
	want := pearson(xs, ys)
	if math.Abs(r-want) > 1e-12 {
		t.Errorf("r = %v, want %v", r, want)
	}
}

func TestCorrelationPerfectAndInverse(t *testing.T) {
	x := numCol("x", 1, 2, 3)
	if r, ok := Correlation(x, numCol("y", 2, 4, 6)); !ok || math.Abs(r-1) > 1e-12 {
		t.Errorf("perfect: r=%v ok=%v", r, ok)
	}
	if r, ok := Correlation(x, numCol("y", 6, 4, 2)); !ok || math.Abs(r+1) > 1e-12 {
		t.Errorf("inverse: r=%v ok=%v", r, ok)
	}
}

func TestCorrelationSkipsNullRows(t *testing.T) {
	x := numColWithNulls("x", []float64{1, 0, 3, 4}, []bool{false, true, false, false})
	y := numColWithNulls("y", []float64{2, 5, 0, 8}, []bool{false, false, true, false})
	// overlap is rows 0 and 3 only
	r, ok := Correlation(x, y)
	if !ok {
		t.Fatal("correlation not computed")
	}
	if math.Abs(r-1) > 1e-12 {
		t.Errorf("r = %v, want 1 over two points", r)
	}
}

func TestCorrelationInsufficientOverlap(t *testing.T) {
	x := numColWithNulls("x", []float64{1, 2}, []bool{false, true})
	y := numColWithNulls("y", []float64{3, 4}, []bool{false, false})
	if _, ok := Correlation(x, y); ok {
		t.Error("one overlapping pair should not be computable")
	}
}

func TestCorrelationConstantColumn(t *testing.T) {
	if _, ok := Correlation(numCol("x", 5, 5, 5), numCol("y", 1, 2, 3)); ok {
		t.Error("constant column correlation should not be computable")
	}
}

func TestEtaSquaredKnownValue(t *testing.T) {
	cat := catCol("g", "A", "A", "A", "B", "B", "B")
	num := numCol("v", 1, 2, 3, 5, 6, 7)
	eta, ok := EtaSquared(cat, num)
	if !ok {
		t.Fatal("eta not computed")
	}
	// grand mean 4: ss_total=28, ss_between=24
	want := 24.0 / 28.0
	if math.Abs(eta-want) > 1e-12 {
		t.Errorf("eta = %v, want %v", eta, want)
	}
}

func TestEtaSquaredBounds(t *testing.T) {
	cat := catCol("g", "A", "A", "B", "B", "C", "C")
	num := numCol("v", 3, 1, 4, 1, 5, 9)
	eta, ok := EtaSquared(cat, num)
	if !ok {
		t.Fatal("eta not computed")
	}
	if eta < 0 || eta > 1 {
		t.Errorf("eta = %v outside [0,1]", eta)
	}
}

func TestEtaSquaredSingleGroup(t *testing.T) {
	cat := catCol("g", "A", "A", "A")
	num := numCol("v", 1, 2, 3)
	if _, ok := EtaSquared(cat, num); ok {
		t.Error("single group should not be computable")
	}
}

func TestEtaSquaredConstantNumeric(t *testing.T) {
	cat := catCol("g", "A", "A", "B", "B")
	num := numCol("v", 7, 7, 7, 7)
	eta, ok := EtaSquared(cat, num)
	if !ok {
		t.Fatal("zero-variance case should be computable")
	}
	if eta != 0.0 {
		t.Errorf("eta = %v, want exactly 0", eta)
	}
}

func TestCorrelationMatrixAndTopPairs(t *testing.T) {
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		*numCol("a", 1, 2, 3, 4),
		*numCol("b", 2, 4, 6, 8),
		*numCol("c", 5, 5, 5, 5),
	}}
	names := []string{"a", "b", "c"}
	m := CorrelationMatrix(ds, names)

	if m[0][0] != 1 || m[1][1] != 1 {
		t.Error("diagonal must be 1")
	}
	if m[0][1] != m[1][0] {
		t.Error("matrix must be symmetric")
	}
	if math.Abs(m[0][1]-1) > 1e-12 {
		t.Errorf("m[a][b] = %v, want 1", m[0][1])
	}
	if !math.IsNaN(m[0][2]) || !math.IsNaN(m[1][2]) {
		t.Error("constant column entries must be NaN")
	}

	pairs := TopPairs(names, m, 3)
	if len(pairs) != 1 {
		t.Fatalf("pairs = %+v, want only a-b", pairs)
	}
	if pairs[0].A != "a" || pairs[0].B != "b" {
		t.Errorf("top pair = %+v", pairs[0])
	}
}
