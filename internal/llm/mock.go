package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockClient is a Client for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string
	ResponseJSON json.RawMessage

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string { return MockName }

// RequestCount reports how many Chat calls have been made.
func (c *MockClient) RequestCount() int64 { return c.requestCount.Load() }

// Chat returns the configured canned response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	count := c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}

	if c.ShouldFail || (c.FailAfter > 0 && count > int64(c.FailAfter)) {
		return nil, fmt.Errorf("mock failure on request %d", count)
	}

	result := &ChatResult{
		Content:   c.ResponseText,
		Provider:  MockName,
		ModelUsed: req.Model,
		RequestID: fmt.Sprintf("mock-%d", count),
	}

	if req.ResponseFormat != nil {
		parsed := c.ResponseJSON
		if parsed == nil {
			var err error
			parsed, err = ParseStructuredJSON(c.ResponseText)
			if err != nil {
				return nil, err
			}
		}
		if err := ValidateStructuredJSON(req.ResponseFormat.Schema, parsed); err != nil {
			return nil, err
		}
		result.ParsedJSON = parsed
		result.Content = string(parsed)
	}

	return result, nil
}
