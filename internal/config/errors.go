package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates an environment value could not be used.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Error describes a single invalid configuration value.
type Error struct {
	Key    string
	Value  string
	Reason string
}

func newError(key, value, reason string) *Error {
	return &Error{Key: key, Value: value, Reason: reason}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("config: %s=%q: %s", e.Key, e.Value, e.Reason)
}

// Unwrap supports errors.Is(err, ErrInvalidConfig).
func (e *Error) Unwrap() error {
	return ErrInvalidConfig
}
