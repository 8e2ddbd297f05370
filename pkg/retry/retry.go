// Package retry provides a small reusable retry policy for operations
// against rate-limited remote APIs.
package retry

import (
	"context"
	"time"
)

// Policy describes how often and with what delay an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of tries. Values below 1 mean a
	// single attempt with no retry.
	MaxAttempts int
	// Backoff returns the delay before retry number attempt (0-based).
	// A nil Backoff retries immediately.
	Backoff func(attempt int) time.Duration
}

// Exponential returns a backoff function that doubles the base delay on
// every attempt: base, 2*base, 4*base, ...
func Exponential(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base << attempt
	}
}

// Do runs op until it succeeds or attempts are exhausted. The sleep
// between attempts is interruptible: when ctx is cancelled the last
// error (or the context error) is returned immediately.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			var wait time.Duration
			if p.Backoff != nil {
				wait = p.Backoff(attempt - 1)
			}
			if wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
		}

		if err = op(); err == nil {
			return nil
		}
	}
	return err
}
