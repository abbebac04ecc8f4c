package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/langtutor/internal/exercise"
	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/internal/tutor"
)

type sequencePicker struct {
	prompts []string
	next    int
}

func (p *sequencePicker) Pick() string {
	prompt := p.prompts[p.next%len(p.prompts)]
	p.next++
	return prompt
}

type reviewerFunc func(ctx context.Context, answer string) (tutor.Review, error)

func (f reviewerFunc) Review(ctx context.Context, answer string) (tutor.Review, error) {
	return f(ctx, answer)
}

func succeedingReviewer() reviewerFunc {
	return func(ctx context.Context, answer string) (tutor.Review, error) {
		return tutor.Review{Answer: answer, Parsed: tutor.ParsedFeedback{Feedback: "Good."}}, nil
	}
}

func failingReviewer(err error) reviewerFunc {
	return func(ctx context.Context, answer string) (tutor.Review, error) {
		return tutor.Review{}, err
	}
}

func TestRound_Submit(t *testing.T) {
	tests := []struct {
		name          string
		submitted     bool
		reviewer      reviewerFunc
		wantErr       error
		wantSubmitted bool
		wantError     string
	}{
		{
			name:          "success moves to submitted",
			reviewer:      succeedingReviewer(),
			wantSubmitted: true,
		},
		{
			name:      "completion failure stays unsubmitted",
			reviewer:  failingReviewer(&tutor.CompletionError{Err: &inference.StatusError{StatusCode: 429, Body: "rate limited"}}),
			wantError: "Error generating feedback: response error 429: rate limited",
		},
		{
			name:      "parse failure stays unsubmitted",
			reviewer:  failingReviewer(&tutor.ParseError{Err: tutor.ErrNoChoices}),
			wantError: "Error parsing the response: reply has no choices",
		},
		{
			name:          "already submitted is rejected",
			submitted:     true,
			reviewer:      succeedingReviewer(),
			wantErr:       ErrAlreadySubmitted,
			wantSubmitted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round := NewRound("id", &sequencePicker{prompts: []string{"p1"}}, time.Now())
			round.Submitted = tt.submitted

			err := round.Submit(context.Background(), tt.reviewer, "I goed home")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantError != "" {
				require.Error(t, err)
				assert.Nil(t, round.Review)
				assert.Equal(t, "I goed home", round.Submission)
			} else {
				require.NoError(t, err)
				require.NotNil(t, round.Review)
				assert.Equal(t, "I goed home", round.Review.Answer)
			}
			assert.Equal(t, tt.wantSubmitted, round.Submitted)
			assert.Equal(t, tt.wantError, round.Error)
		})
	}
}

func TestRound_Next(t *testing.T) {
	picker := &sequencePicker{prompts: []string{"p1", "p2"}}
	round := NewRound("id", picker, time.Now())
	assert.Equal(t, "p1", round.Exercise)

	assert.ErrorIs(t, round.Next(picker), ErrNotSubmitted)
	assert.Equal(t, "p1", round.Exercise)

	require.NoError(t, round.Submit(context.Background(), succeedingReviewer(), "answer"))
	require.NoError(t, round.Next(picker))

	assert.Equal(t, "p2", round.Exercise)
	assert.False(t, round.Submitted)
	assert.Empty(t, round.Submission)
	assert.Nil(t, round.Review)
	assert.Empty(t, round.Error)
}

func TestRound_NextPicksFromCatalogue(t *testing.T) {
	catalogue, err := exercise.NewCatalogue(exercise.DefaultPrompts)
	require.NoError(t, err)

	round := NewRound("id", catalogue, time.Now())
	for i := 0; i < 20; i++ {
		require.NoError(t, round.Submit(context.Background(), succeedingReviewer(), "answer"))
		require.NoError(t, round.Next(catalogue))

		assert.Contains(t, exercise.DefaultPrompts, round.Exercise)
		assert.False(t, round.Submitted)
		assert.Empty(t, round.Submission)
		assert.Nil(t, round.Review)
	}
}
