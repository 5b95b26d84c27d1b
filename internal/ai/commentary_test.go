package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dashloom/dashloom-cli/internal/plan"
)

func plotSpecs(n int) []plan.PlotSpec {
	specs := make([]plan.PlotSpec, n)
	for i := range specs {
		specs[i] = plan.PlotSpec{
			Kind:        plan.Histogram,
			Title:       fmt.Sprintf("chart %d", i+1),
			Columns:     []string{"x"},
			Description: "Histogram of 'x'.",
		}
	}
	return specs
}

func TestCommentatorKeysByTitle(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{
			Role:    "assistant",
			Content: `{"1": "first insight", "2": "second insight"}`,
		}}}})
	}))
	defer srv.Close()

	c := NewCommentator(testClient(srv.URL), "test-model")
	out := c.Generate(context.Background(), plotSpecs(2))
	if out["chart 1"] != "first insight" || out["chart 2"] != "second insight" {
		t.Fatalf("commentary = %+v", out)
	}
}

func TestCommentatorBatchesAndGlobalIndices(t *testing.T) {
	var calls int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		var content string
		if n == 1 {
			content = `{"1": "a", "10": "j"}`
		} else {
			// second batch numbers continue from 11
			content = `{"11": "k", "12": "l"}`
		}
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: content}}}})
	}))
	defer srv.Close()

	c := NewCommentator(testClient(srv.URL), "test-model")
	out := c.Generate(context.Background(), plotSpecs(12))
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls = %d, want 2 batches of 10", calls)
	}
	if out["chart 1"] != "a" || out["chart 10"] != "j" || out["chart 11"] != "k" || out["chart 12"] != "l" {
		t.Fatalf("commentary = %+v", out)
	}
}

func TestCommentatorRetriesOnceOnRateLimit(t *testing.T) {
	var calls int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "rate limited"}})
			return
		}
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{
			Role: "assistant", Content: `{"1": "recovered"}`,
		}}}})
	}))
	defer srv.Close()

	c := NewCommentator(testClient(srv.URL), "test-model")
	c.RetryDelay = 10 * time.Millisecond
	out := c.Generate(context.Background(), plotSpecs(1))
	if out["chart 1"] != "recovered" {
		t.Fatalf("commentary = %+v", out)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls = %d, want retry exactly once", calls)
	}
}

func TestCommentatorSkipsFailedBatch(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad request"}})
	}))
	defer srv.Close()

	c := NewCommentator(testClient(srv.URL), "test-model")
	out := c.Generate(context.Background(), plotSpecs(3))
	if len(out) != 0 {
		t.Fatalf("commentary = %+v, want empty after failed batch", out)
	}
}

func TestCommentatorIgnoresBadIndices(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{
			Role: "assistant", Content: `{"1": "ok", "notanumber": "x", "99": "y"}`,
		}}}})
	}))
	defer srv.Close()

	c := NewCommentator(testClient(srv.URL), "test-model")
	out := c.Generate(context.Background(), plotSpecs(1))
	if len(out) != 1 || out["chart 1"] != "ok" {
		t.Fatalf("commentary = %+v", out)
	}
}
