package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/langtutor/internal/inference"
	mock_inference "github.com/at-ishikawa/langtutor/internal/mocks/inference"
)

func TestReviewer_Review(t *testing.T) {
	reviewedAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		answer        string
		setupMock     func(m *mock_inference.MockClient)
		want          Review
		wantErrAs     any
		wantUserError string
	}{
		{
			name:   "worked example",
			answer: "I goed to the market yesterday.",
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Complete(gomock.Any(), inference.CompletionRequest{
					Prompt:      BuildPrompt("I goed to the market yesterday."),
					Temperature: 0,
					MaxTokens:   512,
				}).Return(inference.CompletionResponse{
					Model:   "gpt-4o",
					Choices: []inference.Choice{{Content: workedExampleReply, FinishReason: "stop"}},
				}, nil)
			},
			want: Review{
				Answer: "I goed to the market yesterday.",
				Reply:  workedExampleReply,
				Model:  "gpt-4o",
				Parsed: ParsedFeedback{
					MarkedIncorrect: "I {goed} to the market yesterday.",
					Corrected:       "I {went} to the market yesterday.",
					Feedback:        `The word "goed" is incorrect. Use the correct past tense "went".`,
				},
				IncorrectWords: []string{"goed"},
				ReviewedAt:     reviewedAt,
			},
		},
		{
			name:   "reply without labels falls back to placeholders",
			answer: "Hello",
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(inference.CompletionResponse{
					Choices: []inference.Choice{{Content: "Looks great!"}},
				}, nil)
				m.EXPECT().GetModel().Return("llama3.1")
			},
			want: Review{
				Answer:         "Hello",
				Reply:          "Looks great!",
				Model:          "llama3.1",
				Parsed:         placeholderFeedback,
				IncorrectWords: []string{},
				ReviewedAt:     reviewedAt,
			},
		},
		{
			name:   "completion failure",
			answer: "Hello",
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(
					inference.CompletionResponse{},
					&inference.StatusError{StatusCode: 401, Body: "invalid api key"},
				)
			},
			wantErrAs:     new(*CompletionError),
			wantUserError: "Error generating feedback: response error 401: invalid api key",
		},
		{
			name:   "reply without choices is a parse failure",
			answer: "Hello",
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(inference.CompletionResponse{Model: "gpt-4o"}, nil)
			},
			wantErrAs:     new(*ParseError),
			wantUserError: "Error parsing the response: reply has no choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			tt.setupMock(client)

			reviewer := NewReviewer(client,
				WithTemperature(0),
				WithMaxTokens(512),
				WithClock(func() time.Time { return reviewedAt }),
			)
			got, err := reviewer.Review(context.Background(), tt.answer)

			if tt.wantErrAs != nil {
				require.Error(t, err)
				assert.ErrorAs(t, err, tt.wantErrAs)
				assert.Equal(t, tt.wantUserError, UserMessage(err))
				assert.Equal(t, Review{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReview_Render(t *testing.T) {
	review := Review{
		Answer: "I goed to the market yesterday.",
		Parsed: ParsedFeedback{
			MarkedIncorrect: "I {goed} to the market yesterday.",
			Corrected:       "I {went} to the market yesterday.",
			Feedback:        "Use went.",
		},
		IncorrectWords: []string{"goed"},
	}

	got := review.Render(HTMLMarkup{})
	assert.Equal(t, RenderedReview{
		HighlightedAnswer:     `I <span class="highlight-incorrect">goed</span> to the market yesterday.`,
		HighlightedCorrection: `I <span class="highlight-corrected">went</span> to the market yesterday.`,
		Feedback:              "Use went.",
	}, got)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Unexpected error: boom", UserMessage(errors.New("boom")))
}
