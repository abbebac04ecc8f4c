package tutor

import (
	"regexp"
	"strings"
)

const (
	LabelMarkedIncorrect = "Marked Incorrect Words:"
	LabelCorrected       = "Corrected Answer:"
	LabelFeedback        = "Feedback:"

	PlaceholderMarkedIncorrect = "Marked incorrect words data missing."
	PlaceholderCorrected       = "Correction data missing."
	PlaceholderFeedback        = "Feedback data missing."
)

// ParsedFeedback holds the three labelled sections of a model reply
type ParsedFeedback struct {
	MarkedIncorrect string `json:"marked_incorrect" yaml:"marked_incorrect"`
	Corrected       string `json:"corrected" yaml:"corrected"`
	Feedback        string `json:"feedback" yaml:"feedback"`
}

var placeholderFeedback = ParsedFeedback{
	MarkedIncorrect: PlaceholderMarkedIncorrect,
	Corrected:       PlaceholderCorrected,
	Feedback:        PlaceholderFeedback,
}

// IsPlaceholder reports whether the reply lacked the expected labels
func (p ParsedFeedback) IsPlaceholder() bool {
	return p == placeholderFeedback
}

// ParseReply splits a reply on the three labels.
// When any label is missing or they are out of order, all three fields are placeholders.
func ParseReply(reply string) ParsedFeedback {
	markedAt := strings.Index(reply, LabelMarkedIncorrect)
	correctedAt := strings.Index(reply, LabelCorrected)
	feedbackAt := strings.Index(reply, LabelFeedback)
	if markedAt < 0 || correctedAt < 0 || feedbackAt < 0 {
		return placeholderFeedback
	}
	if markedAt > correctedAt || correctedAt > feedbackAt {
		return placeholderFeedback
	}

	return ParsedFeedback{
		MarkedIncorrect: section(reply, LabelMarkedIncorrect, LabelCorrected),
		Corrected:       section(reply, LabelCorrected, LabelFeedback),
		Feedback:        section(reply, LabelFeedback, ""),
	}
}

// section returns the text after the first occurrence of label, stopping at a repeated
// label or at the first occurrence of next.
func section(reply, label, next string) string {
	_, rest, _ := strings.Cut(reply, label)
	rest, _, _ = strings.Cut(rest, label)
	if next != "" {
		rest, _, _ = strings.Cut(rest, next)
	}
	return strings.TrimSpace(rest)
}

var braceSpanPattern = regexp.MustCompile(`\{(.*?)\}`)

// ExtractBraceTokens returns the content of every brace-delimited span in order, duplicates included
func ExtractBraceTokens(section string) []string {
	matches := braceSpanPattern.FindAllStringSubmatch(section, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return tokens
}
