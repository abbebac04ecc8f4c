package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client sends a single prompt to a completion endpoint and returns its reply
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	GetModel() string
}

// CompletionRequest is one prompt with its sampling parameters
type CompletionRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"` // Optional: overrides the client's configured model
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type CompletionResponse struct {
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice is one generated reply
type Choice struct {
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason"`
}

const (
	DefaultMaxRetryAttempts = 3
	DefaultMaxTokens        = 1024
)

// ModelOrDefault returns the request model, or fallback when the request leaves it empty
func (req CompletionRequest) ModelOrDefault(fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	return fallback
}

// MaxTokensOrDefault returns the request token limit, or DefaultMaxTokens
func (req CompletionRequest) MaxTokensOrDefault() int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return DefaultMaxTokens
}
