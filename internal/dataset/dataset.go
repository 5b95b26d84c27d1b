package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the storage type of a column, decided at load time (or by the
// caller when building a Dataset in memory). It is distinct from the
// semantic type the schema package infers on top of it.
type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	case KindTime:
		return "datetime"
	default:
		return "string"
	}
}

// Column is a named sequence of nullable scalar values. Exactly one of the
// backing slices is populated, matching Kind; Null marks missing cells in
// every representation.
type Column struct {
	Name string
	Kind Kind

	Null    []bool
	Floats  []float64
	Bools   []bool
	Times   []time.Time
	Strings []string
}

// Len returns the number of cells, including nulls.
func (c *Column) Len() int {
	return len(c.Null)
}

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.Null {
		if isNull {
			n++
		}
	}
	return n
}

// NonNullCount returns the number of present cells.
func (c *Column) NonNullCount() int {
	return c.Len() - c.NullCount()
}

// FloatAt returns the numeric value at row i. ok is false for nulls and for
// non-numeric columns.
func (c *Column) FloatAt(i int) (float64, bool) {
	if c.Kind != KindNumeric || i >= c.Len() || c.Null[i] {
		return 0, false
	}
	return c.Floats[i], true
}

// NonNullFloats returns all present numeric values in row order.
func (c *Column) NonNullFloats() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, c.Len())
	for i, v := range c.Floats {
		if !c.Null[i] {
			out = append(out, v)
		}
	}
	return out
}

// CellString renders the cell at row i in a canonical form, used for
// uniqueness counting and group keys. Null cells render as "".
func (c *Column) CellString(i int) string {
	if i >= c.Len() || c.Null[i] {
		return ""
	}
	switch c.Kind {
	case KindNumeric:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	case KindBool:
		if c.Bools[i] {
			return "true"
		}
		return "false"
	case KindTime:
		return c.Times[i].Format(time.RFC3339)
	default:
		return c.Strings[i]
	}
}

// UniqueCount returns the number of distinct non-null values.
func (c *Column) UniqueCount() int {
	seen := make(map[string]struct{})
	for i := range c.Null {
		if c.Null[i] {
			continue
		}
		seen[c.CellString(i)] = struct{}{}
	}
	return len(seen)
}

// Dataset is an ordered collection of named columns of equal length.
type Dataset struct {
	Name    string
	Columns []Column
}

// NumRows returns the row count (0 for a dataset with no columns).
func (d *Dataset) NumRows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// NumCols returns the column count.
func (d *Dataset) NumCols() int {
	return len(d.Columns)
}

// ColumnNames returns the column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i := range d.Columns {
		names[i] = d.Columns[i].Name
	}
	return names
}

// Column looks a column up by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// HeadCSV renders the first n rows as CSV (header included), for prompt
// sample sections.
func (d *Dataset) HeadCSV(n int) string {
	if n > d.NumRows() {
		n = d.NumRows()
	}
	var b strings.Builder
	for i := range d.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvEscape(d.Columns[i].Name))
	}
	b.WriteByte('\n')
	for row := 0; row < n; row++ {
		for i := range d.Columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvEscape(d.Columns[i].CellString(row)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
