package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dashloom/dashloom-cli/internal/dataset"
	"github.com/dashloom/dashloom-cli/internal/plan"
	"github.com/dashloom/dashloom-cli/internal/schema"
	"github.com/dashloom/dashloom-cli/internal/stats"
)

// Question is one model-proposed analytical question with the chart that
// answers it. YColumn and GroupColumn may be empty.
type Question struct {
	Question    string `json:"question"`
	ChartType   string `json:"chart_type"`
	XColumn     string `json:"x_column"`
	YColumn     string `json:"y_column"`
	GroupColumn string `json:"group_column"`
}

type questionsResponse struct {
	Questions []Question `json:"questions"`
}

// BuildDatasetBrief renders the schema, numeric stats, and a five-row
// sample as the user message for question generation.
func BuildDatasetBrief(ds *dataset.Dataset, info schema.Info) string {
	var parts []string

	parts = append(parts, "## Column Schema")
	for _, m := range info.Columns {
		line := fmt.Sprintf("- %s | type=%s | dtype=%s | null%%=%v | unique=%d",
			m.Name, m.SemanticType, m.Dtype, m.PctMissing, m.NUnique)
		if m.Description != "" {
			line += " | desc=" + m.Description
		}
		parts = append(parts, line)
	}

	if len(info.NumericalCols) > 0 {
		parts = append(parts, "\n## Numerical Column Stats")
		for _, name := range info.NumericalCols {
			col, ok := ds.Column(name)
			if !ok {
				continue
			}
			if s, ok := stats.Summarize(col); ok {
				parts = append(parts, fmt.Sprintf("- %s: mean=%.4g, std=%.4g, min=%.4g, max=%.4g",
					name, s.Mean, s.Std, s.Min, s.Max))
			}
		}
	}

	parts = append(parts, "\n## Sample Data (first 5 rows)")
	parts = append(parts, ds.HeadCSV(5))

	return strings.Join(parts, "\n")
}

// GenerateQuestions asks the model for analytical questions about the
// dataset and drops any whose referenced columns do not exist.
func GenerateQuestions(ctx context.Context, client *Client, model string, ds *dataset.Dataset, info schema.Info) ([]Question, error) {
	logger := zap.L().Named("ai")

	resp, err := client.Generate(ctx, GenerateRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: questionsPrompt},
			{Role: "user", Content: BuildDatasetBrief(ds, info)},
		},
		Temperature:    0.7,
		ResponseFormat: JSONObject(),
	})
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	var parsed questionsResponse
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content())), &parsed); err != nil {
		return nil, fmt.Errorf("parse questions response: %w", err)
	}

	valid := make(map[string]bool, ds.NumCols())
	for _, name := range ds.ColumnNames() {
		valid[name] = true
	}

	var out []Question
	for _, q := range parsed.Questions {
		if q.XColumn != "" && !valid[q.XColumn] {
			logger.Warn("skipping question: x_column not found", zap.String("column", q.XColumn))
			continue
		}
		if q.YColumn != "" && !valid[q.YColumn] {
			logger.Warn("skipping question: y_column not found", zap.String("column", q.YColumn))
			continue
		}
		if q.GroupColumn != "" && !valid[q.GroupColumn] {
			logger.Warn("skipping question: group_column not found", zap.String("column", q.GroupColumn))
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// QuestionSpecs turns validated questions into plot specs. Questions with
// an unknown chart type, or missing the columns their chart family needs,
// are skipped.
func QuestionSpecs(ds *dataset.Dataset, questions []Question) []plan.PlotSpec {
	logger := zap.L().Named("ai")
	var specs []plan.PlotSpec
	for _, q := range questions {
		kind, ok := plan.KindFromString(q.ChartType)
		if !ok || kind == plan.Heatmap {
			logger.Warn("unknown chart_type, skipping", zap.String("chart_type", q.ChartType))
			continue
		}
		if q.XColumn == "" {
			continue
		}
		needsY := kind == plan.Scatter || kind == plan.GroupedBar
		if needsY && q.YColumn == "" {
			logger.Warn("chart needs y_column, skipping",
				zap.String("chart_type", q.ChartType),
				zap.String("question", q.Question))
			continue
		}

		var cols []string
		for _, c := range []string{q.XColumn, q.YColumn, q.GroupColumn} {
			if c != "" {
				cols = append(cols, c)
			}
		}
		specs = append(specs, plan.PlotSpec{
			Kind:        kind,
			Title:       truncateTitle(q.Question, 60),
			Columns:     cols,
			Description: questionDescription(ds, q),
		})
	}
	return specs
}

// questionDescription pairs the question with stats for its x and y
// columns: distribution numbers for numeric ones, cardinality otherwise.
func questionDescription(ds *dataset.Dataset, q Question) string {
	parts := []string{"Question: " + q.Question}
	for _, name := range []string{q.XColumn, q.YColumn} {
		if name == "" {
			continue
		}
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		if s, ok := stats.Summarize(col); ok {
			parts = append(parts, fmt.Sprintf("%s: mean=%.4g, std=%.4g, min=%.4g, max=%.4g",
				name, s.Mean, s.Std, s.Min, s.Max))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %d unique values", name, col.UniqueCount()))
		}
	}
	return strings.Join(parts, " | ")
}

func truncateTitle(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
