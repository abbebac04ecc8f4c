package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/langtutor/internal/assets"
	"github.com/at-ishikawa/langtutor/internal/cli"
	"github.com/at-ishikawa/langtutor/internal/pdf"
	"github.com/at-ishikawa/langtutor/internal/tutor"
)

type reviewOutput struct {
	Exercise string       `yaml:"exercise,omitempty"`
	Review   tutor.Review `yaml:"review"`
}

func newReviewCommand() *cobra.Command {
	var (
		exerciseText string
		pdfPath      string
		format       string
	)
	command := &cobra.Command{
		Use:   "review [answer]",
		Short: "Review one answer given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q, must be text or yaml", format)
			}
			answer, err := readAnswer(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			reviewer, closeReviewer, err := newReviewer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeReviewer()

			review, err := reviewer.Review(cmd.Context(), answer)
			if err != nil {
				return errors.New(tutor.UserMessage(err))
			}

			output := cmd.OutOrStdout()
			switch format {
			case "yaml":
				encoder := yaml.NewEncoder(output)
				if err := encoder.Encode(reviewOutput{Exercise: exerciseText, Review: review}); err != nil {
					return fmt.Errorf("encoder.Encode() > %w", err)
				}
				if err := encoder.Close(); err != nil {
					return fmt.Errorf("encoder.Close() > %w", err)
				}
			default:
				if exerciseText != "" {
					fmt.Fprintf(output, "%s\n\n", exerciseText)
				}
				if err := cli.PrintReview(output, review); err != nil {
					return err
				}
			}

			if pdfPath == "" {
				return nil
			}
			path, err := exportPDF(pdfPath, cfg.Templates.ReviewTemplate, exerciseText, review)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "PDF written to %s\n", path)
			return nil
		},
	}
	command.Flags().StringVar(&exerciseText, "exercise", "", "exercise the answer responds to")
	command.Flags().StringVar(&pdfPath, "pdf", "", "also write the review to this PDF file")
	command.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return command
}

func readAnswer(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll() > %w", err)
	}
	return strings.TrimRight(string(content), "\r\n"), nil
}

func exportPDF(pdfPath, templatePath, exerciseText string, review tutor.Review) (string, error) {
	rendered := review.Render(tutor.MarkdownMarkup{})
	var markdown bytes.Buffer
	if err := assets.WriteReviewMarkdown(&markdown, templatePath, assets.ReviewDocument{
		Exercise:              exerciseText,
		HighlightedAnswer:     rendered.HighlightedAnswer,
		HighlightedCorrection: rendered.HighlightedCorrection,
		Feedback:              tutor.MarkdownMarkup{}.Text(rendered.Feedback),
		Model:                 review.Model,
		ReviewedAt:            review.ReviewedAt,
	}); err != nil {
		return "", err
	}

	path, err := pdf.ConvertMarkdownToPDF(markdown.Bytes(), pdfPath)
	if err != nil {
		return "", fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
	}
	return path, nil
}
