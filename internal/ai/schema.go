package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dashloom/dashloom-cli/internal/schema"
)

type parsedColumn struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type parsedSchema struct {
	Columns []parsedColumn `json:"columns"`
}

// ParseSchemaText interprets a free-form column description via the model
// and resolves the declared names against the dataset's actual columns.
// Blank input yields an empty schema without an API call. Declared types
// outside the known set are coerced to categorical.
func ParseSchemaText(ctx context.Context, client *Client, model, schemaText string, csvColumns []string) (*schema.UserSchema, error) {
	if strings.TrimSpace(schemaText) == "" {
		return &schema.UserSchema{}, nil
	}

	resp, err := client.Generate(ctx, GenerateRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: parseSchemaPrompt},
			{Role: "user", Content: schemaText},
		},
		Temperature:    0,
		ResponseFormat: JSONObject(),
	})
	if err != nil {
		return nil, fmt.Errorf("parse schema text: %w", err)
	}

	var parsed parsedSchema
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content())), &parsed); err != nil {
		return nil, fmt.Errorf("parse schema response: %w", err)
	}

	declared := &schema.UserSchema{}
	for _, pc := range parsed.Columns {
		name := strings.TrimSpace(pc.Name)
		if name == "" {
			continue
		}
		declared.Columns = append(declared.Columns, schema.UserColumn{
			Name:         name,
			DeclaredType: schema.NormalizeType(strings.ToLower(strings.TrimSpace(pc.Type))),
			Description:  strings.TrimSpace(pc.Description),
		})
	}
	matched := schema.MatchColumns(declared, csvColumns)
	zap.L().Named("ai").Debug("parsed user schema",
		zap.Int("declared", len(declared.Columns)),
		zap.Int("matched", len(matched.Columns)))
	return matched, nil
}

// stripJSONFences removes a surrounding markdown code fence, which some
// models add even in json_object mode.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
