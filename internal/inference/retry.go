package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
)

// StatusError is returned when a completion endpoint answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Body)
}

// IsRetryableError determines if an error should trigger a retry
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		// Retry on 5xx errors and rate limiting
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == 429
	}

	// Retry on network-related errors
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "i/o timeout")
}

// Retry calls fn until it succeeds, returns a non-retryable error, or runs out of attempts.
// maxRetryAttempts counts retries, so fn runs at most maxRetryAttempts+1 times.
func Retry(ctx context.Context, maxRetryAttempts uint, initialDelay time.Duration, fn func() error) error {
	return retry.Do(
		func() error {
			err := fn()
			if err != nil && !IsRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(maxRetryAttempts+1),
		retry.Delay(initialDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}
