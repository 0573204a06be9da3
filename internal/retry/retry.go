// package retry wraps transient provider calls with bounded exponential
// backoff.
//
// The delay before attempt n+1 is min(base * 2^(n-1), max), scaled by a
// uniform jitter factor in [0.5, 1.5). Sleeps are context-aware: cancelling
// the context aborts the wait and returns ctx.Err().
package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

// Config bounds the retry loop.
type Config struct {
	MaxAttempts int           // total attempts including the first
	BaseDelay   time.Duration // delay before the second attempt
	MaxDelay    time.Duration // backoff ceiling
}

// DefaultConfig mirrors the retry budget used for provider search calls.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// Do invokes op until it succeeds or the attempt budget is exhausted,
// returning the last error when every attempt fails. A zero or negative
// MaxAttempts behaves as one attempt.
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		delay := cfg.BaseDelay << (attempt - 1)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, lastErr
}
