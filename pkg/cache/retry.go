package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a backend that could not be reached: refused, reset or
// timed-out connections. Lookups that fail this way are retried.
var ErrNetwork = errors.New("cache backend unreachable")

// retryDelay is the wait before the second attempt; it doubles after that.
var retryDelay = time.Second

// retryAttempts bounds the calls RetryWithBackoff makes.
const retryAttempts = 3

// RetryableError marks a transient backend failure.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// [Retryable], or has been called three times. Waits between calls double
// from retryDelay and end early when ctx is done.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	err := fn()
	for attempt, delay := 1, retryDelay; attempt < retryAttempts && IsRetryable(err); attempt, delay = attempt+1, delay*2 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = fn()
	}
	return err
}
