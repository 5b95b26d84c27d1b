package plan

import "testing"

func TestAllocateSlots(t *testing.T) {
	cases := []struct {
		name                         string
		availA, capA, availB, capB   int
		budget                       int
		wantA, wantB                 int
	}{
		{"both full", 10, 5, 10, 4, 9, 5, 4},
		{"a short donates", 2, 5, 10, 4, 9, 2, 7},
		{"b short donates", 10, 5, 1, 4, 9, 8, 1},
		{"both short", 3, 5, 2, 4, 9, 3, 2},
		{"a empty", 0, 5, 12, 4, 9, 0, 9},
		{"b empty", 12, 5, 0, 4, 9, 9, 0},
		{"both empty", 0, 5, 0, 4, 9, 0, 0},
		{"exact fit", 5, 5, 4, 4, 9, 5, 4},
		{"donation capped by availability", 2, 5, 5, 4, 9, 2, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := AllocateSlots(tc.availA, tc.capA, tc.availB, tc.capB, tc.budget)
			if a != tc.wantA || b != tc.wantB {
				t.Errorf("AllocateSlots(%d,%d,%d,%d,%d) = (%d,%d), want (%d,%d)",
					tc.availA, tc.capA, tc.availB, tc.capB, tc.budget, a, b, tc.wantA, tc.wantB)
			}
			if a+b > tc.budget {
				t.Errorf("total %d exceeds budget %d", a+b, tc.budget)
			}
		})
	}
}

func TestAllocateBivariate(t *testing.T) {
	cases := []struct {
		name                  string
		scatter, bar, remain  int
		wantScatter, wantBar  int
	}{
		{"both fit", 2, 3, 8, 2, 3},
		{"scatter short, bar takes rest", 1, 10, 8, 1, 4},
		{"bar short, scatter takes rest", 10, 2, 8, 4, 2},
		{"both overflow splits evenly", 10, 10, 8, 4, 4},
		{"both overflow odd remaining", 10, 10, 7, 3, 4},
		{"no candidates", 0, 0, 8, 0, 0},
		{"tight budget", 10, 10, 3, 1, 2},
		{"zero remaining", 5, 5, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, b := allocateBivariate(tc.scatter, tc.bar, tc.remain)
			if s != tc.wantScatter || b != tc.wantBar {
				t.Errorf("allocateBivariate(%d,%d,%d) = (%d,%d), want (%d,%d)",
					tc.scatter, tc.bar, tc.remain, s, b, tc.wantScatter, tc.wantBar)
			}
			if s+b > tc.remain {
				t.Errorf("total %d exceeds remaining %d", s+b, tc.remain)
			}
		})
	}
}
