package tutor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{name: "regular answer", answer: "I goes to school every days."},
		{name: "empty answer is passed through", answer: ""},
		{name: "format verbs are not interpreted", answer: "100% sure %s %d"},
		{name: "braces are kept verbatim", answer: "I {like} it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPrompt(tt.answer)
			assert.Contains(t, got, "User's Answer: "+tt.answer+"\n")
			assert.Contains(t, got, "Marked Incorrect Words: I {goed} to the market yesterday.")
			assert.Contains(t, got, "Corrected Answer: I {went} to the market yesterday.")
			assert.True(t, strings.HasSuffix(got, "Marked Incorrect Words:\nCorrected Answer:\nFeedback:"))
		})
	}
}
