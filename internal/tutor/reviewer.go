package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/langtutor/internal/inference"
)

// Review is the outcome of one submitted answer
type Review struct {
	Answer         string         `json:"answer" yaml:"answer"`
	Reply          string         `json:"reply" yaml:"reply"`
	Model          string         `json:"model" yaml:"model"`
	Parsed         ParsedFeedback `json:"parsed" yaml:"parsed"`
	IncorrectWords []string       `json:"incorrect_words" yaml:"incorrect_words"`
	ReviewedAt     time.Time      `json:"reviewed_at" yaml:"reviewed_at"`
}

// RenderedReview is a Review converted for one output medium
type RenderedReview struct {
	HighlightedAnswer     string
	HighlightedCorrection string
	Feedback              string
}

// Render highlights the learner's answer and the correction with the given markup
func (r Review) Render(markup Markup) RenderedReview {
	return RenderedReview{
		HighlightedAnswer:     HighlightIncorrect(r.Answer, r.IncorrectWords, markup),
		HighlightedCorrection: HighlightCorrected(r.Parsed.Corrected, markup),
		Feedback:              r.Parsed.Feedback,
	}
}

type Reviewer struct {
	client      inference.Client
	temperature float64
	maxTokens   int
	now         func() time.Time
}

type ReviewerOption func(*Reviewer)

func WithTemperature(temperature float64) ReviewerOption {
	return func(r *Reviewer) {
		r.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) ReviewerOption {
	return func(r *Reviewer) {
		r.maxTokens = maxTokens
	}
}

func WithClock(now func() time.Time) ReviewerOption {
	return func(r *Reviewer) {
		r.now = now
	}
}

// NewReviewer creates a Reviewer; temperature defaults to 0
func NewReviewer(client inference.Client, opts ...ReviewerOption) *Reviewer {
	r := &Reviewer{
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Review sends the answer to the completion endpoint and parses the reply.
// Failures are returned as *CompletionError or *ParseError.
func (r *Reviewer) Review(ctx context.Context, answer string) (Review, error) {
	startTime := r.now()
	response, err := r.client.Complete(ctx, inference.CompletionRequest{
		Prompt:      BuildPrompt(answer),
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		return Review{}, &CompletionError{Err: err}
	}

	review, err := r.parseResponse(answer, response)
	if err != nil {
		return Review{}, err
	}
	slog.Default().Debug("reviewed answer",
		"model", review.Model,
		"incorrectWords", len(review.IncorrectWords),
		"placeholder", review.Parsed.IsPlaceholder(),
		"elapsed", r.now().Sub(startTime),
	)
	return review, nil
}

func (r *Reviewer) parseResponse(answer string, response inference.CompletionResponse) (review Review, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ParseError{Err: fmt.Errorf("%v", p)}
		}
	}()

	if len(response.Choices) == 0 {
		return Review{}, &ParseError{Err: ErrNoChoices}
	}
	reply := response.Choices[0].Content
	parsed := ParseReply(reply)

	model := response.Model
	if model == "" {
		model = r.client.GetModel()
	}
	return Review{
		Answer:         answer,
		Reply:          reply,
		Model:          model,
		Parsed:         parsed,
		IncorrectWords: ExtractBraceTokens(parsed.MarkedIncorrect),
		ReviewedAt:     r.now(),
	}, nil
}
