package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	var waits []int
	backoff := func(attempt int) time.Duration {
		waits = append(waits, attempt)
		return time.Millisecond
	}

	err := Retry(context.Background(), 3, backoff, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	// Backoff runs after attempt 0 and attempt 1, not after success.
	if len(waits) != 2 || waits[0] != 0 || waits[1] != 1 {
		t.Fatalf("expected backoff for attempts [0 1], got %v", waits)
	}
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	last := errors.New("still down")
	err := Retry(context.Background(), 3, func(int) time.Duration { return 0 }, func(context.Context) error {
		calls++
		return last
	})
	if !errors.Is(err, last) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestRetryStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, func(int) time.Duration { return time.Hour }, func(context.Context) error {
		return errors.New("fail once, then wait")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExponentialBackoffSchedule(t *testing.T) {
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for attempt, w := range want {
		if got := ExponentialBackoff(attempt); got != w {
			t.Fatalf("attempt %d: expected %v, got %v", attempt, w, got)
		}
	}
}
