package llm

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMockClient(t *testing.T) {
	ctx := context.Background()

	t.Run("plain chat", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = "hello"

		res, err := c.Chat(ctx, &ChatRequest{Model: "test-model"})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if res.Content != "hello" {
			t.Errorf("content = %q", res.Content)
		}
		if res.ModelUsed != "test-model" {
			t.Errorf("model = %q", res.ModelUsed)
		}
		if c.RequestCount() != 1 {
			t.Errorf("request count = %d, want 1", c.RequestCount())
		}
	})

	t.Run("configured failure", func(t *testing.T) {
		c := NewMockClient()
		c.ShouldFail = true

		if _, err := c.Chat(ctx, &ChatRequest{}); err == nil {
			t.Error("expected failure")
		}
	})

	t.Run("fail after threshold", func(t *testing.T) {
		c := NewMockClient()
		c.FailAfter = 2

		for i := 0; i < 2; i++ {
			if _, err := c.Chat(ctx, &ChatRequest{}); err != nil {
				t.Fatalf("request %d failed early: %v", i+1, err)
			}
		}
		if _, err := c.Chat(ctx, &ChatRequest{}); err == nil {
			t.Error("expected failure after threshold")
		}
	})

	t.Run("structured response validated", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseJSON = json.RawMessage(`{"matches":[]}`)

		schema := json.RawMessage(`{"type":"object","required":["matches"]}`)
		res, err := c.Chat(ctx, &ChatRequest{
			ResponseFormat: &ResponseFormat{Name: "matches", Schema: schema},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if len(res.ParsedJSON) == 0 {
			t.Error("expected parsed JSON")
		}
	})

	t.Run("structured response rejecting bad shape", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseJSON = json.RawMessage(`{}`)

		schema := json.RawMessage(`{"type":"object","required":["matches"]}`)
		_, err := c.Chat(ctx, &ChatRequest{
			ResponseFormat: &ResponseFormat{Name: "matches", Schema: schema},
		})
		if err == nil {
			t.Error("expected validation error")
		}
	})
}
