package tutor

import (
	"html"
	"strings"
)

// Markup renders plain text and the two highlight styles for one output medium
type Markup interface {
	Text(s string) string
	Incorrect(s string) string
	Corrected(s string) string
}

const (
	IncorrectClass = "highlight-incorrect"
	CorrectedClass = "highlight-corrected"
)

// HTMLMarkup escapes text and wraps highlights in classed spans
type HTMLMarkup struct{}

func (HTMLMarkup) Text(s string) string {
	return html.EscapeString(s)
}

func (HTMLMarkup) Incorrect(s string) string {
	return `<span class="` + IncorrectClass + `">` + html.EscapeString(s) + `</span>`
}

func (HTMLMarkup) Corrected(s string) string {
	return `<span class="` + CorrectedClass + `">` + html.EscapeString(s) + `</span>`
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	`~`, `\~`,
	"`", "\\`",
)

// MarkdownMarkup uses strikethrough for mistakes and bold for corrections
type MarkdownMarkup struct{}

func (MarkdownMarkup) Text(s string) string {
	return markdownEscaper.Replace(s)
}

func (MarkdownMarkup) Incorrect(s string) string {
	return "~~" + markdownEscaper.Replace(s) + "~~"
}

func (MarkdownMarkup) Corrected(s string) string {
	return "**" + markdownEscaper.Replace(s) + "**"
}

// PlainMarkup leaves text untouched and marks highlights with brackets
type PlainMarkup struct{}

func (PlainMarkup) Text(s string) string      { return s }
func (PlainMarkup) Incorrect(s string) string { return "[-" + s + "-]" }
func (PlainMarkup) Corrected(s string) string { return "[+" + s + "+]" }
