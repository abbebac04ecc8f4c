package tutor

import (
	"errors"
	"fmt"
)

var ErrNoChoices = errors.New("reply has no choices")

// CompletionError means the completion endpoint could not be reached or refused the request
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed: %v", e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// ParseError means the completion succeeded but its reply could not be read
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UserMessage returns the banner text shown to the learner for a review error
func UserMessage(err error) string {
	var completionErr *CompletionError
	if errors.As(err, &completionErr) {
		return fmt.Sprintf("Error generating feedback: %v", completionErr.Err)
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("Error parsing the response: %v", parseErr.Err)
	}
	return fmt.Sprintf("Unexpected error: %v", err)
}
