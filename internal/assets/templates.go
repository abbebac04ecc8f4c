package assets

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"
)

const (
	pageTemplateName   = "page.html.tmpl"
	reviewTemplateName = "review.md.tmpl"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// ParsePageTemplate parses the page at templatePath, falling back to the embedded page
// when templatePath is empty, missing or invalid
func ParsePageTemplate(templatePath string) (*htmltemplate.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := htmltemplate.New(filepath.Base(templatePath)).ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a page template, using the embedded one",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := htmltemplate.New(pageTemplateName).ParseFS(embeddedTemplates, "templates/"+pageTemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// ParseReviewTemplate is ParsePageTemplate for the Markdown review export
func ParseReviewTemplate(templatePath string) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a review template, using the embedded one",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(reviewTemplateName).ParseFS(embeddedTemplates, "templates/"+reviewTemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
