package archive

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// retryWithBackoff executes fn up to maxRetries+1 times with jittered
// exponential backoff. Errors wrapped by permanent() and context errors
// abort immediately.
func retryWithBackoff(ctx context.Context, maxRetries int, initial, maxDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := initial << (attempt - 1)
			if delay > maxDelay {
				delay = maxDelay
			}
			// Jitter in [delay/2, delay) spreads concurrent retries out.
			delay = delay/2 + time.Duration(rand.Int64N(int64(delay/2)))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}

	return lastErr
}
