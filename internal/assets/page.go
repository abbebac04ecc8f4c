package assets

import (
	"fmt"
	htmltemplate "html/template"
	"io"
)

// Page is the data rendered by the page template
type Page struct {
	Exercise   string
	Submission string
	Submitted  bool
	Error      string

	// Highlighted fields are already escaped by tutor.HTMLMarkup
	HighlightedAnswer     htmltemplate.HTML
	HighlightedCorrection htmltemplate.HTML
	Feedback              string
	Model                 string
}

func WritePage(output io.Writer, tmpl *htmltemplate.Template, page Page) error {
	if err := tmpl.Execute(output, page); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
