package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dashloom/dashloom-cli/internal/plan"
)

// Commentator generates per-chart commentary in batches. A batch that hits
// a rate limit is retried once after RetryDelay; a batch that still fails
// is skipped so the rest of the report is unaffected.
type Commentator struct {
	Client     *Client
	Model      string
	BatchSize  int
	RetryDelay time.Duration
}

// NewCommentator returns a commentator with the standard batch size and
// retry delay.
func NewCommentator(client *Client, model string) *Commentator {
	return &Commentator{
		Client:     client,
		Model:      model,
		BatchSize:  10,
		RetryDelay: 2 * time.Second,
	}
}

// Generate produces commentary for each plot spec, keyed by chart title.
// Charts whose batch failed are simply absent from the result.
func (c *Commentator) Generate(ctx context.Context, specs []plan.PlotSpec) map[string]string {
	logger := zap.L().Named("ai")
	if len(specs) == 0 {
		return map[string]string{}
	}
	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	out := make(map[string]string)
	for start := 0; start < len(specs); start += batchSize {
		end := start + batchSize
		if end > len(specs) {
			end = len(specs)
		}
		batch := specs[start:end]

		raw, err := c.callBatch(ctx, buildChartBatch(batch, start))
		if err != nil {
			logger.Error("commentary batch failed, skipping",
				zap.Int("batch_start", start),
				zap.Error(err))
			continue
		}
		for idxStr, commentary := range raw {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				logger.Warn("skipping invalid index in commentary response",
					zap.String("index", idxStr))
				continue
			}
			offset := idx - start - 1
			if offset < 0 || offset >= len(batch) {
				logger.Warn("skipping out-of-range index in commentary response",
					zap.String("index", idxStr))
				continue
			}
			out[batch[offset].Title] = commentary
		}
	}
	return out
}

// callBatch performs one commentary API call with a single retry on rate
// limiting.
func (c *Commentator) callBatch(ctx context.Context, userMessage string) (map[string]string, error) {
	logger := zap.L().Named("ai")
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := c.Client.Generate(ctx, GenerateRequest{
			Model: c.Model,
			Messages: []Message{
				{Role: "system", Content: commentaryPrompt},
				{Role: "user", Content: userMessage},
			},
			Temperature:    0.7,
			ResponseFormat: JSONObject(),
		})
		if err != nil {
			var rl *RateLimitError
			if attempt == 0 && errors.As(err, &rl) {
				logger.Warn("rate limit hit, retrying commentary batch",
					zap.Duration("delay", c.RetryDelay))
				select {
				case <-time.After(c.RetryDelay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				lastErr = err
				continue
			}
			return nil, err
		}
		var raw map[string]string
		if err := json.Unmarshal([]byte(stripJSONFences(resp.Content())), &raw); err != nil {
			return nil, fmt.Errorf("parse commentary response: %w", err)
		}
		return raw, nil
	}
	return nil, lastErr
}

// buildChartBatch renders one user message describing a slice of charts,
// numbered from startIdx+1 so indices stay global across batches.
func buildChartBatch(specs []plan.PlotSpec, startIdx int) string {
	lines := make([]string, 0, len(specs))
	for offset, s := range specs {
		idx := startIdx + offset + 1
		lines = append(lines, fmt.Sprintf(
			"Chart %d:\n  index: %q\n  title: %q\n  type: %q\n  columns: [%s]\n  description: %q",
			idx, strconv.Itoa(idx), s.Title, s.Kind.String(), strings.Join(s.Columns, ", "), s.Description,
		))
	}
	return strings.Join(lines, "\n\n")
}
