package dispatch

import (
	"context"
	"time"
)

// Backoff returns how long to wait after the given attempt fails.
// Attempts are numbered from 0.
type Backoff func(attempt int) time.Duration

// ExponentialBackoff waits 2^attempt seconds: 1s, 2s, 4s, ...
func ExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// Retry runs fn up to attempts times, sleeping backoff(attempt) between
// tries. It returns nil on the first success, the last error on
// exhaustion, or ctx.Err() if the context ends while waiting.
func Retry(ctx context.Context, attempts int, backoff Backoff, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
