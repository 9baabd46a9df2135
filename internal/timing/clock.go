package timing

import (
	"context"
	"time"
)

// Clock is the delay primitive shared by the initializer and the delivery
// agent. Swapping it for Fake makes settle and backoff waits instant.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// maxBackoffShift keeps 2^attempt seconds inside time.Duration.
const maxBackoffShift = 32

// Backoff returns the wait after a failed attempt: 2^attempt seconds,
// attempt counted from 1. Large attempts saturate instead of wrapping.
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	return time.Duration(int64(1)<<uint(attempt)) * time.Second
}
