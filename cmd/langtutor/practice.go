package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langtutor/internal/cli"
	"github.com/at-ishikawa/langtutor/internal/exercise"
	"github.com/at-ishikawa/langtutor/internal/journal"
)

func newPracticeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "practice",
		Short: "Answer exercises interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			reviewer, closeReviewer, err := newReviewer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeReviewer()

			catalogue, err := exercise.NewCatalogue(cfg.Exercises)
			if err != nil {
				return fmt.Errorf("exercise.NewCatalogue() > %w", err)
			}
			sink, err := journal.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("journal.New() > %w", err)
			}
			defer func() {
				if err := sink.Close(); err != nil {
					slog.Default().Warn("failed to close the journal", "error", err)
				}
			}()

			output := cmd.OutOrStdout()
			fmt.Fprintln(output, "Practice session started! Type 'quit' to exit.")
			fmt.Fprintln(output)
			return cli.NewPracticeCLI(catalogue, reviewer, sink, cmd.InOrStdin(), output).Run(cmd.Context())
		},
	}
}
