package task

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"

	"testing"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0

	err := NewRetry().
		WithMaxInterval(time.Millisecond).
		Run(func() error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestRetryPermanentStops(t *testing.T) {
	attempts := 0
	cause := errors.New("broken")

	err := NewRetry().
		WithMaxInterval(time.Millisecond).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			return backoff.Permanent(err)
		}).
		Run(func() error {
			attempts++
			return cause
		})

	require.ErrorIs(t, err, cause)
	require.Equal(t, 1, attempts)
}

func TestRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRetry().
		WithContext(ctx).
		WithMaxInterval(time.Hour).
		Run(func() error {
			return errors.New("transient")
		})

	require.ErrorIs(t, err, context.Canceled)
}

func TestRetryAcceptableDuration(t *testing.T) {
	var acceptable []bool

	_ = NewRetry().
		WithMaxInterval(time.Millisecond).
		WithMaxElapsedTime(50 * time.Millisecond).
		WithAcceptableDuration(time.Nanosecond).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			acceptable = append(acceptable, isDurationAcceptable)
			return err
		}).
		Run(func() error {
			time.Sleep(time.Millisecond)
			return errors.New("transient")
		})

	require.NotEmpty(t, acceptable)
	require.False(t, acceptable[len(acceptable)-1])
}
