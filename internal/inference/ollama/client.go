// Package ollama talks to a local Ollama server through its native chat API.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "http://localhost:11434"

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
	retryDelay       time.Duration
}

func NewClient(baseURL, model string, retryAttempts uint, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
		retryDelay:       500 * time.Millisecond,
	}
}

func (client *Client) GetModel() string {
	return client.model
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model      string      `json:"model"`
	Message    chatMessage `json:"message"`
	Done       bool        `json:"done"`
	DoneReason string      `json:"done_reason"`
}

// Complete implements the inference.Client interface
func (client *Client) Complete(ctx context.Context, params inference.CompletionRequest) (inference.CompletionResponse, error) {
	var result inference.CompletionResponse
	if err := inference.Retry(ctx, client.maxRetryAttempts, client.retryDelay, func() error {
		response, err := client.complete(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.CompletionResponse{}, err
	}
	return result, nil
}

func (client *Client) complete(ctx context.Context, params inference.CompletionRequest) (inference.CompletionResponse, error) {
	body := chatRequest{
		Model: params.ModelOrDefault(client.model),
		Messages: []chatMessage{
			{Role: "user", Content: params.Prompt},
		},
		Stream: false,
		Options: chatOptions{
			Temperature: params.Temperature,
			NumPredict:  params.MaxTokens,
		},
	}

	res, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&chatResponse{}).
		Post("/api/chat")
	if err != nil {
		return inference.CompletionResponse{}, fmt.Errorf("client.R.Post > %w", err)
	}
	if res.IsError() {
		return inference.CompletionResponse{}, &inference.StatusError{
			StatusCode: res.StatusCode(),
			Body:       res.String(),
		}
	}

	decoded, ok := res.Result().(*chatResponse)
	if !ok || decoded == nil {
		return inference.CompletionResponse{}, fmt.Errorf("empty response body: %s", res.String())
	}

	result := inference.CompletionResponse{Model: decoded.Model}
	if decoded.Message.Content != "" || decoded.Done {
		result.Choices = []inference.Choice{
			{Content: decoded.Message.Content, FinishReason: decoded.DoneReason},
		}
	}
	return result, nil
}
