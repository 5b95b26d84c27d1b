package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Options controls loading limits. Zero values fall back to defaults.
type Options struct {
	// MaxRows caps the retained row count; larger datasets are sampled
	// deterministically with Seed.
	MaxRows int
	// MaxColumns caps the retained column count; excess columns are dropped.
	MaxColumns int
	// Seed drives the row-sampling RNG so repeated loads agree.
	Seed int64
}

// DefaultOptions returns the standard loading limits.
func DefaultOptions() Options {
	return Options{
		MaxRows:    10000,
		MaxColumns: 50,
		Seed:       42,
	}
}

// ErrEmpty is returned when the input has a header but no data rows, or no
// columns at all.
var ErrEmpty = errors.New("dataset is empty")

// Values treated as missing, matching the usual CSV null spellings.
var nullTokens = map[string]bool{
	"": true, "null": true, "NULL": true, "NaN": true, "nan": true,
	"NA": true, "N/A": true, "n/a": true,
}

var boolTokens = map[string]bool{
	"true": true, "True": true, "TRUE": true,
	"false": false, "False": false, "FALSE": false,
}

// LoadFile reads and validates a CSV file from disk.
func LoadFile(path string, opt Options) (*Dataset, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Load(f, filepath.Base(path), opt)
}

// Load reads a CSV stream into a typed Dataset, returning the dataset plus
// human-readable warnings for every degradation applied (encoding fallback,
// dropped columns, sampling). A dataset with no data rows is rejected.
func Load(r io.Reader, name string, opt Options) (*Dataset, []string, error) {
	logger := zap.L().Named("dataset")
	if opt.MaxRows <= 0 {
		opt.MaxRows = DefaultOptions().MaxRows
	}
	if opt.MaxColumns <= 0 {
		opt.MaxColumns = DefaultOptions().MaxColumns
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	var warnings []string
	text := string(raw)
	if !utf8.Valid(raw) {
		text = decodeLatin1(raw)
		warnings = append(warnings, "File was read with latin-1 encoding (utf-8 failed).")
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmpty
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	if ncol == 0 {
		return nil, nil, ErrEmpty
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if len(rec) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		rows = append(rows, rec[:ncol])
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmpty
	}

	// Drop columns that are 100% null.
	keep := make([]int, 0, ncol)
	var dropped []string
	for j := 0; j < ncol; j++ {
		allNull := true
		for _, rec := range rows {
			if !nullTokens[strings.TrimSpace(rec[j])] {
				allNull = false
				break
			}
		}
		if allNull {
			dropped = append(dropped, header[j])
		} else {
			keep = append(keep, j)
		}
	}
	if len(dropped) > 0 {
		warnings = append(warnings, fmt.Sprintf("Dropped %d all-null column(s): %s", len(dropped), strings.Join(dropped, ", ")))
	}

	// Cap columns.
	if len(keep) > opt.MaxColumns {
		keep = keep[:opt.MaxColumns]
		warnings = append(warnings, fmt.Sprintf("Dataset has more than %d columns; only the first %d are kept.", opt.MaxColumns, opt.MaxColumns))
	}
	if len(keep) == 0 {
		return nil, nil, ErrEmpty
	}

	// Sample rows deterministically when over the cap.
	if len(rows) > opt.MaxRows {
		original := len(rows)
		rng := rand.New(rand.NewSource(opt.Seed))
		idx := rng.Perm(len(rows))[:opt.MaxRows]
		sort.Ints(idx)
		sampled := make([][]string, len(idx))
		for i, ri := range idx {
			sampled[i] = rows[ri]
		}
		rows = sampled
		warnings = append(warnings, fmt.Sprintf("Dataset sampled to %d rows (original: %d).", opt.MaxRows, original))
	}

	ds := &Dataset{Name: name, Columns: make([]Column, 0, len(keep))}
	for _, j := range keep {
		ds.Columns = append(ds.Columns, buildColumn(header[j], rows, j))
	}
	logger.Debug("loaded dataset",
		zap.String("name", name),
		zap.Int("rows", ds.NumRows()),
		zap.Int("cols", ds.NumCols()),
		zap.Int("warnings", len(warnings)))
	return ds, warnings, nil
}

// buildColumn infers the storage kind of one column and materializes it.
// A column is numeric when every non-null cell parses as a float, boolean
// when every non-null cell is a true/false literal; otherwise it stays a
// string column (date detection is semantic, not storage, and happens in
// the schema package).
func buildColumn(name string, rows [][]string, j int) Column {
	n := len(rows)
	col := Column{Name: name, Null: make([]bool, n)}

	allNumeric, allBool := true, true
	for i, rec := range rows {
		v := strings.TrimSpace(rec[j])
		if nullTokens[v] {
			col.Null[i] = true
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allNumeric = false
		}
		if _, ok := boolTokens[v]; !ok {
			allBool = false
		}
	}

	switch {
	case allBool:
		col.Kind = KindBool
		col.Bools = make([]bool, n)
		for i, rec := range rows {
			if !col.Null[i] {
				col.Bools[i] = boolTokens[strings.TrimSpace(rec[j])]
			}
		}
	case allNumeric:
		col.Kind = KindNumeric
		col.Floats = make([]float64, n)
		for i, rec := range rows {
			if !col.Null[i] {
				col.Floats[i], _ = strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
			}
		}
	default:
		col.Kind = KindString
		col.Strings = make([]string, n)
		for i, rec := range rows {
			if !col.Null[i] {
				col.Strings[i] = strings.TrimSpace(rec[j])
			}
		}
	}
	return col
}

func decodeLatin1(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
