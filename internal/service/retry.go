package service

import (
	"context"
	"time"
)

// retryOnce runs fn and, if it fails, runs it one more time after delay.
// It gives up early when ctx is done while waiting.
func retryOnce(ctx context.Context, delay time.Duration, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return err
	case <-t.C:
	}

	return fn(ctx)
}
