package cli

import (
	"github.com/fatih/color"
)

// ColorMarkup prints mistakes in red strikethrough and corrections in bold green
type ColorMarkup struct {
	incorrect *color.Color
	corrected *color.Color
}

func NewColorMarkup() ColorMarkup {
	return ColorMarkup{
		incorrect: color.New(color.FgRed, color.CrossedOut),
		corrected: color.New(color.FgGreen, color.Bold),
	}
}

func (m ColorMarkup) Text(s string) string {
	return s
}

func (m ColorMarkup) Incorrect(s string) string {
	return m.incorrect.Sprint(s)
}

func (m ColorMarkup) Corrected(s string) string {
	return m.corrected.Sprint(s)
}
