package checkout

import (
	"context"
	"time"
)

// DelayTransport waits a fixed amount of time and always succeeds.
type DelayTransport struct {
	delay time.Duration
}

func NewDelayTransport(delay time.Duration) *DelayTransport {
	if delay < 0 {
		delay = 0
	}
	return &DelayTransport{delay: delay}
}

func (t *DelayTransport) Checkout(ctx context.Context, _ Request) (Result, error) {
	if err := sleep(ctx, t.delay); err != nil {
		return Result{}, err
	}
	return Result{Success: true}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
