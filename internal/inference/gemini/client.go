// Package gemini adapts the Google Gen AI SDK to inference.Client.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/at-ishikawa/langtutor/internal/inference"
)

type Client struct {
	client           *genai.Client
	model            string
	maxRetryAttempts uint
	retryDelay       time.Duration
}

// NewClient creates a Gemini API client. baseURL is optional and only set for tests or proxies.
func NewClient(ctx context.Context, apiKey, model, baseURL string, retryAttempts uint) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient > %w", err)
	}

	return &Client{
		client:           client,
		model:            model,
		maxRetryAttempts: retryAttempts,
		retryDelay:       500 * time.Millisecond,
	}, nil
}

func (c *Client) GetModel() string {
	return c.model
}

// Complete implements the inference.Client interface
func (c *Client) Complete(ctx context.Context, req inference.CompletionRequest) (inference.CompletionResponse, error) {
	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokensOrDefault()),
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}},
	}
	model := req.ModelOrDefault(c.model)

	var result inference.CompletionResponse
	if err := inference.Retry(ctx, c.maxRetryAttempts, c.retryDelay, func() error {
		response, err := c.client.Models.GenerateContent(ctx, model, contents, config)
		if err != nil {
			return mapError(err)
		}

		result = inference.CompletionResponse{Model: model}
		for _, candidate := range response.Candidates {
			if candidate.Content == nil {
				continue
			}
			var text string
			for _, part := range candidate.Content.Parts {
				text += part.Text
			}
			result.Choices = append(result.Choices, inference.Choice{
				Content:      text,
				FinishReason: string(candidate.FinishReason),
			})
		}
		return nil
	}); err != nil {
		return inference.CompletionResponse{}, err
	}
	return result, nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini generate content > %w", &inference.StatusError{
			StatusCode: apiErr.Code,
			Body:       apiErr.Message,
		})
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return fmt.Errorf("gemini generate content > %w", &inference.StatusError{
			StatusCode: apiErrPtr.Code,
			Body:       apiErrPtr.Message,
		})
	}
	return fmt.Errorf("gemini generate content > %w", err)
}
