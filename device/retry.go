package device

import (
	"errors"
	"time"
)

// retryableError marks a failure that warrants sending the command again.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retry runs fn up to attempts times, sleeping delay between attempts.
// Only errors wrapped in retryableError are retried.
func retry(attempts int, delay time.Duration, sleep func(time.Duration), fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			sleep(delay)
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return errors.As(err, new(*retryableError))
}
