// Package provider builds the inference.Client selected in the configuration.
package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/at-ishikawa/langtutor/internal/config"
	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/internal/inference/anthropic"
	"github.com/at-ishikawa/langtutor/internal/inference/gemini"
	"github.com/at-ishikawa/langtutor/internal/inference/ollama"
	"github.com/at-ishikawa/langtutor/internal/inference/openai"
)

func New(ctx context.Context, cfg *config.Config) (inference.Client, error) {
	retries := cfg.Inference.MaxRetryAttempts
	timeout := cfg.Inference.Timeout

	switch cfg.Inference.Provider {
	case "", "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		if cfg.OpenAI.BaseURL != "" {
			return openai.NewClientWithBaseURL(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, retries, timeout), nil
		}
		return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, retries, timeout), nil
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
		var opts []option.RequestOption
		if timeout > 0 {
			opts = append(opts, option.WithRequestTimeout(timeout))
		}
		return anthropic.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, retries, opts...)
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		return gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, retries)
	case "ollama":
		return ollama.NewClient(cfg.Ollama.BaseURL, cfg.Ollama.Model, retries, timeout), nil
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Inference.Provider)
	}
}
