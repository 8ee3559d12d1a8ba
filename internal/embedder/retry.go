package embedder

import (
	"context"
	"time"
)

// retryPolicy configures exponential backoff for provider API calls.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	multiplier  float64
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxAttempts: 3,
		baseDelay:   100 * time.Millisecond,
		maxDelay:    5 * time.Second,
		multiplier:  2.0,
	}
}

// withRetry runs fn with exponential backoff. Context cancellation stops
// retrying immediately.
func withRetry[T any](ctx context.Context, policy retryPolicy, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T
	delay := policy.baseDelay

	for attempt := 0; attempt < policy.maxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt < policy.maxAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * policy.multiplier)
				if delay > policy.maxDelay {
					delay = policy.maxDelay
				}
			}
		}
	}

	return zero, lastErr
}
