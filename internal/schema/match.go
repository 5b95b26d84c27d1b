package schema

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

// fuzzyCutoff is the minimum similarity ratio for a fuzzy column-name match.
const fuzzyCutoff = 0.6

// MatchColumns resolves user-declared column names against the dataset's
// actual names, trying exact, then case-insensitive, then fuzzy matching.
// Declarations that match are returned with the real column name substituted;
// declarations that match nothing are dropped with a warning. Each actual
// column is claimed at most once.
func MatchColumns(user *UserSchema, actual []string) *UserSchema {
	logger := zap.L().Named("schema")
	if user == nil {
		return nil
	}

	lowerToActual := make(map[string]string, len(actual))
	for _, name := range actual {
		key := strings.ToLower(name)
		if _, exists := lowerToActual[key]; !exists {
			lowerToActual[key] = name
		}
	}

	claimed := make(map[string]bool, len(actual))
	out := &UserSchema{}
	for _, uc := range user.Columns {
		name, ok := resolveName(uc.Name, actual, lowerToActual, claimed)
		if !ok {
			logger.Warn("user schema column not found in dataset; dropped",
				zap.String("column", uc.Name))
			continue
		}
		claimed[name] = true
		uc.Name = name
		out.Columns = append(out.Columns, uc)
	}
	return out
}

func resolveName(declared string, actual []string, lowerToActual map[string]string, claimed map[string]bool) (string, bool) {
	for _, name := range actual {
		if name == declared && !claimed[name] {
			return name, true
		}
	}
	if name, ok := lowerToActual[strings.ToLower(declared)]; ok && !claimed[name] {
		return name, true
	}
	return closestName(declared, actual, claimed)
}

// closestName finds the unclaimed actual name with the highest similarity
// ratio to declared, requiring at least fuzzyCutoff. Ratios are computed
// over lowercased characters so case differences do not penalize a match.
// Ties keep the earlier column.
func closestName(declared string, actual []string, claimed map[string]bool) (string, bool) {
	target := chars(declared)
	best, bestRatio := "", fuzzyCutoff
	for _, name := range actual {
		if claimed[name] {
			continue
		}
		r := difflib.NewMatcher(target, chars(name)).Ratio()
		if r > bestRatio || (r == bestRatio && best == "") {
			best, bestRatio = name, r
		}
	}
	return best, best != ""
}

func chars(s string) []string {
	return strings.Split(strings.ToLower(s), "")
}
