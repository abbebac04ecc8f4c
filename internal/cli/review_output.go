package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/at-ishikawa/langtutor/internal/tutor"
)

// PrintReview writes the highlighted answer, correction and feedback
func PrintReview(w io.Writer, review tutor.Review) error {
	bold := color.New(color.Bold)
	rendered := review.Render(NewColorMarkup())

	sections := []struct {
		title string
		body  string
	}{
		{title: "Your answer", body: rendered.HighlightedAnswer},
		{title: "Correction", body: rendered.HighlightedCorrection},
		{title: "Feedback", body: rendered.Feedback},
	}
	for _, section := range sections {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", bold.Sprint(section.title), section.body); err != nil {
			return fmt.Errorf("fmt.Fprintf() > %w", err)
		}
	}
	return nil
}
