package timing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestBackoffSaturates(t *testing.T) {
	for _, attempt := range []int{33, 63, 64, 1000} {
		assert.Equal(t, Backoff(32), Backoff(attempt), "attempt %d", attempt)
	}
	assert.Greater(t, Backoff(64), time.Duration(0))
}

func TestSystemSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := System().Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSystemSleepWaits(t *testing.T) {
	start := time.Now()
	assert.NoError(t, System().Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFakeAdvancesOnSleep(t *testing.T) {
	start := time.Unix(1700000000, 0)
	f := NewFake(start)

	assert.NoError(t, f.Sleep(context.Background(), 2*time.Second))
	f.Advance(time.Second)
	assert.NoError(t, f.Sleep(context.Background(), 4*time.Second))

	assert.Equal(t, start.Add(7*time.Second), f.Now())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, f.Sleeps())
}
