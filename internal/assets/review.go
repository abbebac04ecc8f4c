package assets

import (
	"fmt"
	"io"
	"time"
)

// ReviewDocument is the data rendered by the Markdown review template
type ReviewDocument struct {
	Exercise              string
	HighlightedAnswer     string
	HighlightedCorrection string
	Feedback              string
	Model                 string
	ReviewedAt            time.Time
}

func WriteReviewMarkdown(output io.Writer, templatePath string, doc ReviewDocument) error {
	tmpl, err := ParseReviewTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseReviewTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, doc); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
