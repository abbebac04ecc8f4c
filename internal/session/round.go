// Package session keeps the per-learner exercise round and its transitions.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/at-ishikawa/langtutor/internal/tutor"
)

var (
	ErrAlreadySubmitted   = errors.New("round already submitted")
	ErrNotSubmitted       = errors.New("round not submitted yet")
	ErrSubmissionInFlight = errors.New("a submission is already being reviewed")
)

// ExercisePicker chooses the exercise for a new round
type ExercisePicker interface {
	Pick() string
}

// AnswerReviewer reviews one answer
type AnswerReviewer interface {
	Review(ctx context.Context, answer string) (tutor.Review, error)
}

// Round is the state of one learner's current exercise.
// Unsubmitted rounds have Submitted=false and no Review; Submitted rounds carry the Review.
type Round struct {
	ID         string
	Exercise   string
	Submission string
	Submitted  bool
	Review     *tutor.Review
	// Error is the user-visible message of the last failed submission
	Error    string
	LastSeen time.Time

	inFlight bool
}

func NewRound(id string, picker ExercisePicker, now time.Time) *Round {
	return &Round{
		ID:       id,
		Exercise: picker.Pick(),
		LastSeen: now,
	}
}

// Submit reviews the answer. On success the round becomes submitted; on failure it stays
// unsubmitted with the error message recorded and the answer kept for a retry.
func (r *Round) Submit(ctx context.Context, reviewer AnswerReviewer, answer string) error {
	if r.Submitted {
		return ErrAlreadySubmitted
	}

	r.Submission = answer
	review, err := reviewer.Review(ctx, answer)
	if err != nil {
		r.Error = tutor.UserMessage(err)
		return err
	}

	r.Review = &review
	r.Submitted = true
	r.Error = ""
	return nil
}

// Next starts a new round with a freshly picked exercise
func (r *Round) Next(picker ExercisePicker) error {
	if !r.Submitted {
		return ErrNotSubmitted
	}
	r.Exercise = picker.Pick()
	r.Submission = ""
	r.Submitted = false
	r.Review = nil
	r.Error = ""
	return nil
}

// Snapshot returns a copy safe to read outside the store lock
func (r *Round) Snapshot() Round {
	snapshot := *r
	if r.Review != nil {
		review := *r.Review
		snapshot.Review = &review
	}
	return snapshot
}
