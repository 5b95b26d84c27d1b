package schema

import (
	"testing"

	"github.com/dashloom/dashloom-cli/internal/dataset"
)

func numericColumn(name string, vals []float64) dataset.Column {
	return dataset.Column{
		Name:   name,
		Kind:   dataset.KindNumeric,
		Null:   make([]bool, len(vals)),
		Floats: vals,
	}
}

func stringColumn(name string, vals []string) dataset.Column {
	null := make([]bool, len(vals))
	for i, v := range vals {
		null[i] = v == ""
	}
	return dataset.Column{
		Name:    name,
		Kind:    dataset.KindString,
		Null:    null,
		Strings: vals,
	}
}

func TestDetectPartitionsEveryColumn(t *testing.T) {
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		numericColumn("price", seq(30)),
		stringColumn("city", []string{"NYC", "LA", "NYC"}),
		stringColumn("date", []string{"2024-01-01", "2024-01-02", "2024-01-03"}),
	}}
	info := Detect(ds, nil, Options{})

	total := len(info.NumericalCols) + len(info.CategoricalCols) + len(info.DatetimeCols)
	if total != ds.NumCols() {
		t.Fatalf("grouped lists cover %d columns, want %d", total, ds.NumCols())
	}
	if len(info.NumericalCols) != 1 || info.NumericalCols[0] != "price" {
		t.Errorf("numerical = %v", info.NumericalCols)
	}
	if len(info.CategoricalCols) != 1 || info.CategoricalCols[0] != "city" {
		t.Errorf("categorical = %v", info.CategoricalCols)
	}
	if len(info.DatetimeCols) != 1 || info.DatetimeCols[0] != "date" {
		t.Errorf("datetime = %v", info.DatetimeCols)
	}
}

func TestDetectCardinalityBoundary(t *testing.T) {
	// exactly 20 unique values -> categorical; 21 -> numerical
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		numericColumn("at_limit", seq(20)),
		numericColumn("over_limit", seq(21)),
	}}
	info := Detect(ds, nil, Options{})

	m, _ := info.ColumnMeta("at_limit")
	if m.SemanticType != Categorical {
		t.Errorf("20 unique values: got %s, want categorical", m.SemanticType)
	}
	m, _ = info.ColumnMeta("over_limit")
	if m.SemanticType != Numerical {
		t.Errorf("21 unique values: got %s, want numerical", m.SemanticType)
	}
}

func TestDetectBooleanIsCategorical(t *testing.T) {
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		{Name: "flag", Kind: dataset.KindBool, Null: []bool{false, false}, Bools: []bool{true, false}},
	}}
	info := Detect(ds, nil, Options{})
	m, _ := info.ColumnMeta("flag")
	if m.SemanticType != Categorical {
		t.Errorf("bool column: got %s, want categorical", m.SemanticType)
	}
}

func TestDetectDatetimeRequiresFullSample(t *testing.T) {
	dates := stringColumn("d1", []string{"2024-01-01", "01/02/2024", "2024/03/05"})
	mixed := stringColumn("d2", []string{"2024-01-01", "not a date", "2024-01-03"})
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{dates, mixed}}
	info := Detect(ds, nil, Options{})

	m, _ := info.ColumnMeta("d1")
	if m.SemanticType != Datetime {
		t.Errorf("d1: got %s, want datetime", m.SemanticType)
	}
	m, _ = info.ColumnMeta("d2")
	if m.SemanticType != Categorical {
		t.Errorf("d2: got %s, want categorical", m.SemanticType)
	}
}

func TestDetectSampleSkipsNulls(t *testing.T) {
	// nulls do not count against the date sample
	col := stringColumn("d", []string{"", "2024-01-01", "", "2024-01-02"})
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{col}}
	info := Detect(ds, nil, Options{})
	m, _ := info.ColumnMeta("d")
	if m.SemanticType != Datetime {
		t.Errorf("got %s, want datetime", m.SemanticType)
	}
}

func TestDetectUserOverrideWins(t *testing.T) {
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		numericColumn("zip", seq(30)),
	}}
	user := &UserSchema{Columns: []UserColumn{
		{Name: "zip", DeclaredType: Categorical, Description: "postal code"},
	}}
	info := Detect(ds, user, Options{})
	m, _ := info.ColumnMeta("zip")
	if m.SemanticType != Categorical {
		t.Errorf("override ignored: got %s", m.SemanticType)
	}
	if m.Description != "postal code" {
		t.Errorf("description = %q", m.Description)
	}
	if len(info.CategoricalCols) != 1 {
		t.Errorf("grouped lists not updated for override: %+v", info)
	}
}

func TestDetectPctMissingRounding(t *testing.T) {
	// 1 null of 3 rows -> 33.333...% -> 33.3
	col := stringColumn("c", []string{"a", "", "b"})
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{col}}
	info := Detect(ds, nil, Options{})
	m, _ := info.ColumnMeta("c")
	if m.PctMissing != 33.3 {
		t.Errorf("pct_missing = %v, want 33.3", m.PctMissing)
	}
	if m.NullCount != 1 {
		t.Errorf("null_count = %d, want 1", m.NullCount)
	}
}

func TestDetectIsIdempotent(t *testing.T) {
	ds := &dataset.Dataset{Name: "t", Columns: []dataset.Column{
		numericColumn("x", seq(25)),
		stringColumn("c", []string{"a", "b", "a", "c", "b", "a", "a", "b", "c", "a",
			"a", "b", "a", "c", "b", "a", "a", "b", "c", "a", "a", "b", "a", "c", "b"}),
	}}
	first := Detect(ds, nil, Options{})
	second := Detect(ds, nil, Options{})
	for i := range first.Columns {
		if first.Columns[i] != second.Columns[i] {
			t.Fatalf("detection not stable for %s: %+v vs %+v",
				first.Columns[i].Name, first.Columns[i], second.Columns[i])
		}
	}
}

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
