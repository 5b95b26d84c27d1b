package schema

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dashloom/dashloom-cli/internal/dataset"
)

// Options controls semantic type detection.
type Options struct {
	// MaxUniqueForCategorical is the cardinality above which a numeric column
	// is treated as continuous rather than categorical.
	MaxUniqueForCategorical int
	// DatetimeSampleSize is how many leading non-null values of a string
	// column are probed for date formats.
	DatetimeSampleSize int
}

// DefaultOptions returns the standard detection thresholds.
func DefaultOptions() Options {
	return Options{
		MaxUniqueForCategorical: 20,
		DatetimeSampleSize:      50,
	}
}

// Detect classifies every column of ds into exactly one semantic type and
// returns the aggregated schema. User declarations (already matched to real
// column names) take precedence over inference and are applied verbatim.
func Detect(ds *dataset.Dataset, user *UserSchema, opt Options) Info {
	logger := zap.L().Named("schema")
	if opt.MaxUniqueForCategorical <= 0 {
		opt.MaxUniqueForCategorical = DefaultOptions().MaxUniqueForCategorical
	}
	if opt.DatetimeSampleSize <= 0 {
		opt.DatetimeSampleSize = DefaultOptions().DatetimeSampleSize
	}

	overrides := make(map[string]UserColumn)
	if user != nil {
		for _, uc := range user.Columns {
			overrides[uc.Name] = uc
		}
	}

	info := Info{
		NumRows: ds.NumRows(),
		NumCols: ds.NumCols(),
		Columns: make([]ColumnMeta, 0, ds.NumCols()),
	}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		meta := ColumnMeta{
			Name:       col.Name,
			Dtype:      col.Kind.String(),
			NullCount:  col.NullCount(),
			PctMissing: pctMissing(col),
			NUnique:    col.UniqueCount(),
		}
		if uc, ok := overrides[col.Name]; ok {
			meta.SemanticType = uc.DeclaredType
			meta.Description = uc.Description
		} else {
			meta.SemanticType = inferType(col, opt)
		}
		switch meta.SemanticType {
		case Numerical:
			info.NumericalCols = append(info.NumericalCols, col.Name)
		case Datetime:
			info.DatetimeCols = append(info.DatetimeCols, col.Name)
		default:
			info.CategoricalCols = append(info.CategoricalCols, col.Name)
		}
		info.Columns = append(info.Columns, meta)
	}
	logger.Debug("detected schema",
		zap.Int("numerical", len(info.NumericalCols)),
		zap.Int("categorical", len(info.CategoricalCols)),
		zap.Int("datetime", len(info.DatetimeCols)))
	return info
}

// inferType applies the classification ladder: booleans are categorical,
// numerics split on cardinality, native times are datetime, and string
// columns are probed for date formats before defaulting to categorical.
func inferType(col *dataset.Column, opt Options) Type {
	switch col.Kind {
	case dataset.KindBool:
		return Categorical
	case dataset.KindNumeric:
		if col.UniqueCount() > opt.MaxUniqueForCategorical {
			return Numerical
		}
		return Categorical
	case dataset.KindTime:
		return Datetime
	}
	if looksLikeDates(col, opt.DatetimeSampleSize) {
		return Datetime
	}
	return Categorical
}

// looksLikeDates samples the first limit non-null values and reports whether
// every one of them parses with a known date layout. An empty sample is not
// a match.
func looksLikeDates(col *dataset.Column, limit int) bool {
	sampled := 0
	for i := 0; i < col.Len() && sampled < limit; i++ {
		if col.Null[i] {
			continue
		}
		sampled++
		if _, ok := parseDate(col.Strings[i]); !ok {
			return false
		}
	}
	return sampled > 0
}

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// pctMissing is the null fraction as a percentage rounded to one decimal.
func pctMissing(col *dataset.Column) float64 {
	if col.Len() == 0 {
		return 0.0
	}
	pct := float64(col.NullCount()) / float64(col.Len()) * 100
	return math.Round(pct*10) / 10
}
