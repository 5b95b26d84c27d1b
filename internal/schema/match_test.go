package schema

import "testing"

func TestMatchColumnsExact(t *testing.T) {
	user := &UserSchema{Columns: []UserColumn{
		{Name: "price", DeclaredType: Numerical},
	}}
	out := MatchColumns(user, []string{"price", "city"})
	if len(out.Columns) != 1 || out.Columns[0].Name != "price" {
		t.Fatalf("got %+v", out.Columns)
	}
}

func TestMatchColumnsCaseInsensitive(t *testing.T) {
	user := &UserSchema{Columns: []UserColumn{
		{Name: "PRICE", DeclaredType: Numerical},
	}}
	out := MatchColumns(user, []string{"Price", "city"})
	if len(out.Columns) != 1 || out.Columns[0].Name != "Price" {
		t.Fatalf("got %+v", out.Columns)
	}
}

func TestMatchColumnsFuzzy(t *testing.T) {
	// "Cty" vs "city": ratio 6/7 clears the 0.6 cutoff
	user := &UserSchema{Columns: []UserColumn{
		{Name: "Cty", DeclaredType: Categorical},
	}}
	out := MatchColumns(user, []string{"city", "price"})
	if len(out.Columns) != 1 || out.Columns[0].Name != "city" {
		t.Fatalf("got %+v", out.Columns)
	}
}

func TestMatchColumnsDropsUnmatched(t *testing.T) {
	user := &UserSchema{Columns: []UserColumn{
		{Name: "zzzzzz", DeclaredType: Numerical},
		{Name: "city", DeclaredType: Categorical},
	}}
	out := MatchColumns(user, []string{"city", "price"})
	if len(out.Columns) != 1 || out.Columns[0].Name != "city" {
		t.Fatalf("unmatched declaration should be dropped, got %+v", out.Columns)
	}
}

func TestMatchColumnsClaimsOnce(t *testing.T) {
	// both declarations resolve toward "city"; only the first claims it
	user := &UserSchema{Columns: []UserColumn{
		{Name: "city", DeclaredType: Categorical},
		{Name: "cty", DeclaredType: Numerical},
	}}
	out := MatchColumns(user, []string{"city"})
	if len(out.Columns) != 1 {
		t.Fatalf("column claimed twice: %+v", out.Columns)
	}
	if out.Columns[0].DeclaredType != Categorical {
		t.Errorf("wrong declaration won: %+v", out.Columns[0])
	}
}

func TestNormalizeType(t *testing.T) {
	cases := map[string]Type{
		"numerical":   Numerical,
		"categorical": Categorical,
		"datetime":    Datetime,
		"text":        Categorical,
		"":            Categorical,
	}
	for in, want := range cases {
		if got := NormalizeType(in); got != want {
			t.Errorf("NormalizeType(%q) = %s, want %s", in, got, want)
		}
	}
}
