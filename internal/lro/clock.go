package lro

import (
	"context"
	"time"
)

// Clock is the time source used while waiting on a work request.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first. It
	// returns ctx.Err() when interrupted.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is a Clock backed by the runtime's monotonic clock.
type RealClock struct{}

// Verify interface implementations at compile time
var _ Clock = RealClock{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep waits for d or ctx cancellation.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
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
