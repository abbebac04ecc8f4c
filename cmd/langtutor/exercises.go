package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langtutor/internal/exercise"
)

func newExercisesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exercises",
		Short: "List the exercise catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			catalogue, err := exercise.NewCatalogue(cfg.Exercises)
			if err != nil {
				return fmt.Errorf("exercise.NewCatalogue() > %w", err)
			}
			for i, prompt := range catalogue.Prompts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, prompt)
			}
			return nil
		},
	}
}
