package task

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Implements operation retrying with exponential backoff
type Retry struct {
	ctx                context.Context
	maxElapsedTime     time.Duration
	maxInterval        time.Duration
	acceptableDuration time.Duration
	onError            func(err error, isDurationAcceptable bool) error
}

func NewRetry() *Retry {
	return new(Retry)
}

func (self *Retry) WithMaxElapsedTime(maxElapsedTime time.Duration) *Retry {
	self.maxElapsedTime = maxElapsedTime
	return self
}

func (self *Retry) WithMaxInterval(maxInterval time.Duration) *Retry {
	self.maxInterval = maxInterval
	return self
}

// Time after which the onError callback gets isDurationAcceptable=false.
// Lets the caller escalate logging or give up for long lasting failures.
func (self *Retry) WithAcceptableDuration(acceptableDuration time.Duration) *Retry {
	self.acceptableDuration = acceptableDuration
	return self
}

func (self *Retry) WithContext(ctx context.Context) *Retry {
	self.ctx = ctx
	return self
}

// Called upon each failure. Returning backoff.Permanent(err) stops retrying.
func (self *Retry) WithOnError(v func(err error, isDurationAcceptable bool) error) *Retry {
	self.onError = v
	return self
}

func (self *Retry) Run(f func() error) (err error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = self.maxElapsedTime
	if self.maxInterval > 0 {
		b.MaxInterval = self.maxInterval
	}
	b.Reset()

	start := time.Now()

	for {
		err = f()
		if err == nil {
			return nil
		}

		if self.onError != nil {
			isDurationAcceptable := self.acceptableDuration <= 0 || time.Since(start) < self.acceptableDuration
			err = self.onError(err, isDurationAcceptable)
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}

		interval := b.NextBackOff()
		if interval == backoff.Stop {
			return err
		}

		if self.ctx != nil {
			select {
			case <-self.ctx.Done():
				return self.ctx.Err()
			case <-time.After(interval):
			}
		} else {
			time.Sleep(interval)
		}
	}
}
