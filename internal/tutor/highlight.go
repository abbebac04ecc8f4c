package tutor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type span struct {
	start, end int
}

// HighlightIncorrect wraps every whole-word occurrence of each token in the learner's original text.
// Tokens are matched literally and case-sensitively; empty tokens are ignored. Where two tokens
// overlap, the token listed first wins.
func HighlightIncorrect(original string, tokens []string, markup Markup) string {
	var spans []span
	for _, token := range tokens {
		if token == "" {
			continue
		}
		for _, s := range findWholeWord(original, token) {
			if !overlapsAny(spans, s) {
				spans = append(spans, s)
			}
		}
	}
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})

	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(markup.Text(original[prev:s.start]))
		b.WriteString(markup.Incorrect(original[s.start:s.end]))
		prev = s.end
	}
	b.WriteString(markup.Text(original[prev:]))
	return b.String()
}

// HighlightCorrected replaces each brace-delimited span with the corrected marker around its content
func HighlightCorrected(section string, markup Markup) string {
	var b strings.Builder
	prev := 0
	for _, loc := range braceSpanPattern.FindAllStringSubmatchIndex(section, -1) {
		b.WriteString(markup.Text(section[prev:loc[0]]))
		b.WriteString(markup.Corrected(section[loc[2]:loc[3]]))
		prev = loc[1]
	}
	b.WriteString(markup.Text(section[prev:]))
	return b.String()
}

// findWholeWord returns non-overlapping occurrences of token that sit on word boundaries
// at both ends, scanning left to right the way a `\btoken\b` regular expression would.
func findWholeWord(text, token string) []span {
	var found []span
	offset := 0
	for offset <= len(text) {
		i := strings.Index(text[offset:], token)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(token)
		if isBoundary(text, start) && isBoundary(text, end) {
			found = append(found, span{start: start, end: end})
			offset = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return found
}

// isBoundary reports whether exactly one side of position i is a word character
func isBoundary(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func overlapsAny(spans []span, s span) bool {
	for _, existing := range spans {
		if s.start < existing.end && existing.start < s.end {
			return true
		}
	}
	return false
}
