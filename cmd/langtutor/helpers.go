package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/langtutor/internal/config"
	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/internal/inference/provider"
	"github.com/at-ishikawa/langtutor/internal/tutor"
)

// loadConfig loads the config file and applies --provider and --model when they were given
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	if flags.Changed("provider") {
		loader.Set("inference.provider", providerName)
	}
	if flags.Changed("model") {
		loader.Set("inference.model", model)
	}
	return loader.Load()
}

// newReviewer returns the reviewer and a function releasing its client
func newReviewer(ctx context.Context, cfg *config.Config) (*tutor.Reviewer, func(), error) {
	client, err := provider.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("provider.New() > %w", err)
	}
	slog.Default().Debug("using inference provider",
		"provider", cfg.Inference.Provider,
		"model", client.GetModel(),
	)

	reviewer := tutor.NewReviewer(client,
		tutor.WithTemperature(cfg.Inference.Temperature),
		tutor.WithMaxTokens(cfg.Inference.MaxTokens),
	)
	return reviewer, func() { closeClient(client) }, nil
}

func closeClient(client inference.Client) {
	closer, ok := client.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Default().Warn("failed to close the inference client", "error", err)
	}
}
