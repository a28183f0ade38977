package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstant_SuccessImmediate(t *testing.T) {
	err := Constant(context.Background(), func() error { return nil }, 10*time.Millisecond, 3, nil)
	assert.NoError(t, err)
}

func TestConstant_RetryExactlyNThenFail(t *testing.T) {
	attempts := 3
	var calls int
	sentinel := errors.New("fail")
	err := Constant(context.Background(), func() error {
		calls++
		return sentinel
	}, 5*time.Millisecond, attempts, nil)

	assert.Error(t, err)
	assert.ErrorIs(t, err, sentinel, "last error must be surfaced")
	assert.Equal(t, attempts, calls, "must call exactly 'attempts' times")
}

func TestConstant_RetryThenSuccessBeforeMax(t *testing.T) {
	var calls int
	var retries int
	err := Constant(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	}, 2*time.Millisecond, 5, func(err error, next time.Duration) {
		retries++
		assert.Error(t, err)
		assert.Equal(t, 2*time.Millisecond, next)
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestConstant_AttemptsNonPositiveMeansOneAttempt(t *testing.T) {
	var calls int
	err := Constant(context.Background(), func() error {
		calls++
		return errors.New("fail once")
	}, time.Millisecond, 0, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, calls, "should only attempt once when attempts<=0")
}

func TestConstant_PermanentStopsEarly(t *testing.T) {
	var calls int
	sentinel := errors.New("bad payload")
	err := Constant(context.Background(), func() error {
		calls++
		return Permanent(sentinel)
	}, time.Millisecond, 3, nil)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestConstant_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	err := Constant(ctx, func() error {
		calls++
		return errors.New("fail")
	}, time.Second, 3, nil)

	assert.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))
	assert.True(t, IsPermanent(Permanent(errors.New("x"))))
	assert.False(t, IsPermanent(errors.New("x")))
}
