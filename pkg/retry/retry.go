package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Operation func() error

// Permanent marks err as not worth retrying. Constant stops on the first permanent error
// and returns the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}

// Constant runs fn up to attempts times with a fixed interval between attempts.
// onRetry, if set, is called after every failed attempt that will be retried.
func Constant(ctx context.Context, fn Operation, interval time.Duration, attempts int, onRetry func(error, time.Duration)) error {
	if attempts <= 0 {
		attempts = 1
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1)),
		ctx,
	)

	calls := 0
	err := backoff.RetryNotify(func() error {
		calls++
		return fn()
	}, bo, func(err error, next time.Duration) {
		if onRetry != nil {
			onRetry(err, next)
		}
	})
	if err != nil {
		return fmt.Errorf("failed after %d attempts: %w", calls, err)
	}
	return nil
}
