package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/langtutor/internal/exercise"
	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/internal/journal"
	mock_inference "github.com/at-ishikawa/langtutor/internal/mocks/inference"
	mock_journal "github.com/at-ishikawa/langtutor/internal/mocks/journal"
	"github.com/at-ishikawa/langtutor/internal/tutor"
)

const goodReply = "Marked Incorrect Words: I {goed} home.\n" +
	"Corrected Answer: I {went} home.\n" +
	"Feedback: Use went."

func newTestPracticeCLI(t *testing.T, input string, client inference.Client, sink journal.Sink) (*PracticeCLI, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	next := 0
	catalogue, err := exercise.NewCatalogueWithRand([]string{"First prompt", "Second prompt"}, func(n int) int {
		i := next % n
		next++
		return i
	})
	require.NoError(t, err)

	var stdout bytes.Buffer
	return NewPracticeCLI(catalogue, tutor.NewReviewer(client), sink, strings.NewReader(input), &stdout), &stdout
}

func TestPracticeCLI_Run(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		setupMocks  func(client *mock_inference.MockClient, sink *mock_journal.MockSink)
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:  "quit before answering",
			input: "quit\n",
			setupMocks: func(client *mock_inference.MockClient, sink *mock_journal.MockSink) {
			},
			wantContain: []string{"First prompt", "Practice session ended."},
		},
		{
			name:  "answer then move to the next exercise",
			input: "I goed home.\n\nexit\n",
			setupMocks: func(client *mock_inference.MockClient, sink *mock_journal.MockSink) {
				client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(inference.CompletionResponse{
					Model:   "gpt-4o",
					Choices: []inference.Choice{{Content: goodReply}},
				}, nil)
				sink.EXPECT().Record(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, attempt journal.Attempt) error {
						assert.Equal(t, "First prompt", attempt.Exercise)
						assert.Equal(t, []string{"goed"}, attempt.IncorrectWords)
						return nil
					})
			},
			wantContain: []string{
				"First prompt",
				"Your answer\nI goed home.",
				"Correction\nI went home.",
				"Feedback\nUse went.",
				"Reviewed by gpt-4o",
				"Second prompt",
				"Practice session ended.",
			},
		},
		{
			name:  "failed review keeps the exercise",
			input: "I goed home.\nquit\n",
			setupMocks: func(client *mock_inference.MockClient, sink *mock_journal.MockSink) {
				client.EXPECT().Complete(gomock.Any(), gomock.Any()).
					Return(inference.CompletionResponse{}, &inference.StatusError{StatusCode: 503, Body: "overloaded"})
			},
			wantContain: []string{"Error generating feedback: response error 503: overloaded"},
			wantAbsent:  []string{"Second prompt", "Correction"},
		},
		{
			name:  "end of input ends the session",
			input: "",
			setupMocks: func(client *mock_inference.MockClient, sink *mock_journal.MockSink) {
			},
			wantContain: []string{"First prompt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			sink := mock_journal.NewMockSink(ctrl)
			tt.setupMocks(client, sink)

			cli, stdout := newTestPracticeCLI(t, tt.input, client, sink)
			require.NoError(t, cli.Run(context.Background()))

			got := stdout.String()
			for _, want := range tt.wantContain {
				assert.Contains(t, got, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, got, absent)
			}
		})
	}
}

func TestPrintReview(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	err := PrintReview(&buf, tutor.Review{
		Answer:         "She go to school.",
		IncorrectWords: []string{"go"},
		Parsed: tutor.ParsedFeedback{
			MarkedIncorrect: "She {go} to school.",
			Corrected:       "She {goes} to school.",
			Feedback:        "Third person singular takes -s.",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Your answer\nShe go to school.\n\nCorrection\nShe goes to school.\n\nFeedback\nThird person singular takes -s.\n\n", buf.String())
}

func TestColorMarkup(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = false }()

	markup := NewColorMarkup()
	assert.Equal(t, "plain", markup.Text("plain"))
	assert.Contains(t, markup.Incorrect("goed"), "goed")
	assert.NotEqual(t, "goed", markup.Incorrect("goed"))
	assert.Contains(t, markup.Corrected("went"), "went")
	assert.NotEqual(t, "went", markup.Corrected("went"))
}
