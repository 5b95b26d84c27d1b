// Package report assembles the analysis run into a persistable document:
// dataset shape, detected schema, summary statistic tables, the planned
// charts, and any AI commentary.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dashloom/dashloom-cli/internal/dataset"
	"github.com/dashloom/dashloom-cli/internal/plan"
	"github.com/dashloom/dashloom-cli/internal/schema"
	"github.com/dashloom/dashloom-cli/internal/stats"
)

// NumericRow is one numeric column's summary, rounded for display.
type NumericRow struct {
	Column   string  `yaml:"column"`
	Count    int     `yaml:"count"`
	Mean     float64 `yaml:"mean"`
	Median   float64 `yaml:"median"`
	Std      float64 `yaml:"std"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Q25      float64 `yaml:"q25"`
	Q75      float64 `yaml:"q75"`
	Skewness float64 `yaml:"skewness"`
}

// CategoricalRow is one categorical column's value distribution.
type CategoricalRow struct {
	Column  string `yaml:"column"`
	Count   int    `yaml:"count"`
	Unique  int    `yaml:"unique"`
	Mode    string `yaml:"mode"`
	ModeN   int    `yaml:"mode_freq"`
}

// PlotEntry is one planned chart with any commentary attached.
type PlotEntry struct {
	Kind        string   `yaml:"kind"`
	Title       string   `yaml:"title"`
	Columns     []string `yaml:"columns"`
	Description string   `yaml:"description"`
	Commentary  string   `yaml:"commentary,omitempty"`
}

// Report is the complete result of one analysis run.
type Report struct {
	ID          string           `yaml:"id"`
	Dataset     string           `yaml:"dataset"`
	GeneratedAt time.Time        `yaml:"generated_at"`
	Rows        int              `yaml:"rows"`
	Columns     int              `yaml:"columns"`
	Warnings    []string         `yaml:"warnings,omitempty"`
	Schema      schema.Info      `yaml:"schema"`
	Numeric     []NumericRow     `yaml:"numeric_summary,omitempty"`
	Categorical []CategoricalRow `yaml:"categorical_summary,omitempty"`
	Univariate  []PlotEntry      `yaml:"univariate_plots,omitempty"`
	Bivariate   []PlotEntry      `yaml:"bivariate_plots,omitempty"`
	Insights    []PlotEntry      `yaml:"insight_plots,omitempty"`
}

// New builds a report skeleton for a dataset and its schema, including the
// summary statistic tables.
func New(ds *dataset.Dataset, info schema.Info, warnings []string) *Report {
	r := &Report{
		ID:          uuid.NewString(),
		Dataset:     ds.Name,
		GeneratedAt: time.Now().UTC(),
		Rows:        ds.NumRows(),
		Columns:     ds.NumCols(),
		Warnings:    warnings,
		Schema:      info,
	}
	for _, name := range info.NumericalCols {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		if s, ok := stats.Summarize(col); ok {
			r.Numeric = append(r.Numeric, NumericRow{
				Column:   name,
				Count:    s.Count,
				Mean:     round2(s.Mean),
				Median:   round2(s.Median),
				Std:      round2(s.Std),
				Min:      round2(s.Min),
				Max:      round2(s.Max),
				Q25:      round2(s.Q25),
				Q75:      round2(s.Q75),
				Skewness: round2(s.Skewness),
			})
		}
	}
	for _, name := range info.CategoricalCols {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		if s, ok := stats.SummarizeCategorical(col, 0); ok {
			r.Categorical = append(r.Categorical, CategoricalRow{
				Column: name,
				Count:  s.Count,
				Unique: s.Unique,
				Mode:   s.Mode,
				ModeN:  s.ModeN,
			})
		}
	}
	return r
}

// AttachPlots records the planned charts, pairing each with its commentary
// by title.
func (r *Report) AttachPlots(univariate, bivariate, insights []plan.PlotSpec, commentary map[string]string) {
	r.Univariate = entries(univariate, commentary)
	r.Bivariate = entries(bivariate, commentary)
	r.Insights = entries(insights, commentary)
}

func entries(specs []plan.PlotSpec, commentary map[string]string) []PlotEntry {
	out := make([]PlotEntry, 0, len(specs))
	for _, s := range specs {
		out = append(out, PlotEntry{
			Kind:        s.Kind.String(),
			Title:       s.Title,
			Columns:     s.Columns,
			Description: s.Description,
			Commentary:  commentary[s.Title],
		})
	}
	return out
}

// Save writes the report as YAML under dir, named by its ID, atomically.
// The written path is returned.
func (r *Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(dir, r.ID+".yaml")
	if err := safeWriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// safeWriteFile writes data to a temp file and atomically renames it into place.
func safeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// Markdown renders the report as a human-readable document.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis Report: %s\n\n", r.Dataset)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Rows: %d | Columns: %d\n\n", r.Rows, r.Columns)

	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Schema\n\n")
	fmt.Fprintf(&b, "- Numerical: %s\n", joinOrNone(r.Schema.NumericalCols))
	fmt.Fprintf(&b, "- Categorical: %s\n", joinOrNone(r.Schema.CategoricalCols))
	fmt.Fprintf(&b, "- Datetime: %s\n\n", joinOrNone(r.Schema.DatetimeCols))

	if len(r.Numeric) > 0 {
		b.WriteString("## Numeric Summary\n\n")
		b.WriteString("| Column | Count | Mean | Median | Std | Min | Max |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, row := range r.Numeric {
			fmt.Fprintf(&b, "| %s | %d | %v | %v | %v | %v | %v |\n",
				row.Column, row.Count, row.Mean, row.Median, row.Std, row.Min, row.Max)
		}
		b.WriteString("\n")
	}

	if len(r.Categorical) > 0 {
		b.WriteString("## Categorical Summary\n\n")
		b.WriteString("| Column | Count | Unique | Mode | Mode Freq |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, row := range r.Categorical {
			fmt.Fprintf(&b, "| %s | %d | %d | %s | %d |\n",
				row.Column, row.Count, row.Unique, row.Mode, row.ModeN)
		}
		b.WriteString("\n")
	}

	writePlotSection(&b, "Univariate Plots", r.Univariate)
	writePlotSection(&b, "Bivariate Plots", r.Bivariate)
	writePlotSection(&b, "AI Insight Plots", r.Insights)

	return b.String()
}

func writePlotSection(b *strings.Builder, title string, entries []PlotEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for i, e := range entries {
		fmt.Fprintf(b, "### %d. %s [%s]\n\n", i+1, e.Title, e.Kind)
		fmt.Fprintf(b, "Columns: %s\n\n", strings.Join(e.Columns, ", "))
		fmt.Fprintf(b, "%s\n\n", e.Description)
		if e.Commentary != "" {
			fmt.Fprintf(b, "> %s\n\n", e.Commentary)
		}
	}
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
