package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidThreadCount is wrapped by every EnforceError.
	ErrInvalidThreadCount = errors.New("thread count must be positive")

	// ErrAlreadyInitialized is returned when configuring a singleton after it was built.
	ErrAlreadyInitialized = errors.New("thread pool already initialized")

	// ErrPoolClosed is the reason reported for submissions made after shutdown.
	ErrPoolClosed = errors.New("thread pool is shut down")
)

// EnforceError is the panic value raised by EnforcePositive.
type EnforceError struct {
	What  string
	Value int
}

func (e *EnforceError) Error() string {
	return fmt.Sprintf("enforce failed: %s = %d, want > 0", e.What, e.Value)
}

func (e *EnforceError) Unwrap() error {
	return ErrInvalidThreadCount
}

// EnforcePositive panics with an *EnforceError when n <= 0.
//
// A bad thread count is a configuration error and is not recoverable, so the
// panic is expected to take the process down. Tests recover it.
func EnforcePositive(what string, n int) {
	if n <= 0 {
		panic(&EnforceError{What: what, Value: n})
	}
}

// ValidateThreadCount is the non-panicking form of EnforcePositive.
func ValidateThreadCount(what string, n int) error {
	if n <= 0 {
		return &EnforceError{What: what, Value: n}
	}
	return nil
}
