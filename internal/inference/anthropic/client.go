// Package anthropic adapts the Anthropic Messages API to inference.Client.
package anthropic

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/at-ishikawa/langtutor/internal/inference"
)

type Client struct {
	client *anthropic.Client
	model  string
}

// NewClient creates a client. The SDK retries transient failures itself, so retryAttempts is passed through to it.
func NewClient(apiKey, model string, retryAttempts uint, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	requestOptions := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(int(retryAttempts)),
	}, opts...)
	client := anthropic.NewClient(requestOptions...)

	return &Client{
		client: &client,
		model:  model,
	}, nil
}

func (c *Client) GetModel() string {
	return c.model
}

// Complete implements the inference.Client interface
func (c *Client) Complete(ctx context.Context, req inference.CompletionRequest) (inference.CompletionResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.ModelOrDefault(c.model)),
		MaxTokens:   int64(req.MaxTokensOrDefault()),
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return inference.CompletionResponse{}, mapError(err)
	}

	result := inference.CompletionResponse{Model: string(msg.Model)}
	for _, block := range msg.Content {
		if block.Type == "text" {
			result.Choices = append(result.Choices, inference.Choice{
				Content:      block.Text,
				FinishReason: string(msg.StopReason),
			})
		}
	}
	return result, nil
}

func mapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("anthropic messages > %w", &inference.StatusError{
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Error(),
		})
	}
	return fmt.Errorf("anthropic messages > %w", err)
}
