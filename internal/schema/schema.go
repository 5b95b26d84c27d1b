package schema

// Type is the semantic classification of a column, distinct from its raw
// storage representation.
type Type string

const (
	Numerical   Type = "numerical"
	Categorical Type = "categorical"
	Datetime    Type = "datetime"
)

// NormalizeType coerces free-form type strings to the closed Type set.
// Anything outside the set becomes Categorical.
func NormalizeType(s string) Type {
	switch Type(s) {
	case Numerical, Categorical, Datetime:
		return Type(s)
	default:
		return Categorical
	}
}

// ColumnMeta is the per-column metadata record produced by detection.
type ColumnMeta struct {
	Name         string  `yaml:"name"`
	Dtype        string  `yaml:"dtype"`
	SemanticType Type    `yaml:"semantic_type"`
	Description  string  `yaml:"description,omitempty"`
	NullCount    int     `yaml:"null_count"`
	PctMissing   float64 `yaml:"pct_missing"`
	NUnique      int     `yaml:"n_unique"`
}

// Info aggregates all column records plus grouped name lists. Every column
// name appears in exactly one of the three grouped lists.
type Info struct {
	NumRows         int          `yaml:"n_rows"`
	NumCols         int          `yaml:"n_cols"`
	NumericalCols   []string     `yaml:"numerical_cols"`
	CategoricalCols []string     `yaml:"categorical_cols"`
	DatetimeCols    []string     `yaml:"datetime_cols"`
	Columns         []ColumnMeta `yaml:"columns"`
}

// ColumnMeta looks up the record for a column by name.
func (in Info) ColumnMeta(name string) (ColumnMeta, bool) {
	for _, m := range in.Columns {
		if m.Name == name {
			return m, true
		}
	}
	return ColumnMeta{}, false
}

// UserColumn is a user-declared column descriptor, already parsed from free
// text by the AI collaborator. Name may be approximate until matched.
type UserColumn struct {
	Name         string
	DeclaredType Type
	Description  string
}

// UserSchema is the set of user declarations applied on top of detection.
type UserSchema struct {
	Columns []UserColumn
}
