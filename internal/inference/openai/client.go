package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/langtutor/internal/inference"
	"resty.dev/v3"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
	retryDelay       time.Duration
}

func NewClient(apiKey, model string, retryAttempts uint, timeout time.Duration) *Client {
	return NewClientWithBaseURL(DefaultBaseURL, apiKey, model, retryAttempts, timeout)
}

// NewClientWithBaseURL creates a client for any endpoint that speaks the chat completions API
func NewClientWithBaseURL(baseURL, apiKey, model string, retryAttempts uint, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
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

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Complete implements the inference.Client interface
func (client *Client) Complete(
	ctx context.Context,
	params inference.CompletionRequest,
) (inference.CompletionResponse, error) {
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

func (client *Client) getRequestBody(args inference.CompletionRequest) ChatCompletionRequest {
	return ChatCompletionRequest{
		Model:       args.ModelOrDefault(client.model),
		Temperature: args.Temperature,
		MaxTokens:   args.MaxTokens,
		Messages: []Message{
			{Role: RoleUser, Content: args.Prompt},
		},
	}
}

func (client *Client) complete(
	ctx context.Context,
	args inference.CompletionRequest,
) (inference.CompletionResponse, error) {
	requestBody := client.getRequestBody(args)

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.CompletionResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.CompletionResponse{}, &inference.StatusError{
			StatusCode: response.StatusCode(),
			Body:       response.String(),
		}
	}

	responseBody, ok := response.Result().(*ChatCompletionResponse)
	if !ok || responseBody == nil {
		return inference.CompletionResponse{}, fmt.Errorf("empty response body: %s", response.String())
	}
	slog.Default().Debug("openai response",
		"model", responseBody.Model,
		"choices", len(responseBody.Choices),
		"totalTokens", responseBody.Usage.TotalTokens,
	)

	result := inference.CompletionResponse{
		Model: responseBody.Model,
	}
	for _, choice := range responseBody.Choices {
		result.Choices = append(result.Choices, inference.Choice{
			Content:      choice.Message.Content,
			FinishReason: choice.FinishReason,
		})
	}
	return result, nil
}
