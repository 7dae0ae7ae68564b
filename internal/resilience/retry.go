// Package resilience retries filesystem reads that fail with transient
// OS errors (EBUSY, EAGAIN, ETIMEDOUT).
package resilience

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"
)

// ErrTransientIO is matched by errors returned when every attempt failed
// with a transient error.
var ErrTransientIO = errors.New("transient I/O error")

// Policy defines the retry behavior for an operation.
type Policy struct {
	// MaxAttempts is the total number of calls, including the first one.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt.
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration

	// Retryable decides whether an error warrants another attempt.
	// Nil means IsTransient.
	Retryable func(error) bool
}

// DefaultFilePolicy is used by profile and standards loaders.
func DefaultFilePolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   20 * time.Millisecond,
		MaxDelay:    500 * time.Millisecond,
		Retryable:   IsTransient,
	}
}

// ExhaustedError is returned when every attempt failed with a retryable
// error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap exposes both the sentinel and the last underlying error.
func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrTransientIO, e.Err}
}

// IsTransient reports whether err is an OS error that may clear on retry.
// Works through *fs.PathError and other wrappers.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.ETIMEDOUT)
}

// Do calls fn until it succeeds, returns a non-retryable error, the
// context is cancelled, or MaxAttempts is reached.
func Do(ctx context.Context, policy Policy, fn func() error) error {
	_, err := DoValue(ctx, policy, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoValue is Do for functions that return a value.
func DoValue[T any](ctx context.Context, policy Policy, fn func() (T, error)) (T, error) {
	var zero T

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := policy.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var lastErr error
	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(Backoff(attempt, policy.BaseDelay, policy.MaxDelay)):
			}
		}
	}

	return zero, &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// Backoff returns base*2^attempt, capped at max. Zero or negative inputs
// yield no delay.
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base
	for range attempt {
		delay *= 2
		if max > 0 && delay >= max {
			return max
		}
	}
	if max > 0 && delay > max {
		return max
	}
	return delay
}

// FileReader is the subset of filesystem access ReadFile needs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// ReadFile reads path through fsys, retrying transient failures.
func ReadFile(ctx context.Context, policy Policy, fsys FileReader, path string) ([]byte, error) {
	return DoValue(ctx, policy, func() ([]byte, error) {
		return fsys.ReadFile(path)
	})
}
