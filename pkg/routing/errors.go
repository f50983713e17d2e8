package routing

import (
	"errors"
	"fmt"
	"strings"
)

// Terminal failover errors that can be checked with errors.Is().
var (
	// ErrExhausted is returned when every provider in the registry failed.
	ErrExhausted = errors.New("all providers exhausted")

	// ErrCanceled is returned when the caller withdrew before a provider succeeded.
	ErrCanceled = errors.New("request canceled")
)

// ExhaustedError is returned when the executor reached the end of the registry
// without an accepted response. Error names only the attempt count; the
// provider detail stays reachable through Unwrap and the fields.
type ExhaustedError struct {
	// Attempts is the number of providers tried
	Attempts int

	// Providers lists the attempted providers in rank order
	Providers []string

	// LastErr is the failure of the last attempted provider
	LastErr error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d providers failed", e.Attempts)
}

// Is implements error matching for errors.Is().
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// Unwrap returns the last attempt's error.
func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

// CanceledError is returned when the caller's context ended during failover.
type CanceledError struct {
	// Attempts is the number of attempts started before cancellation
	Attempts int

	// Providers lists the attempted providers in rank order
	Providers []string

	// Err is the context error (context.Canceled or context.DeadlineExceeded)
	Err error
}

// Error implements the error interface.
func (e *CanceledError) Error() string {
	if len(e.Providers) == 0 {
		return fmt.Sprintf("request canceled before any attempt: %v", e.Err)
	}
	return fmt.Sprintf("request canceled after %d attempts (attempted: %s): %v",
		e.Attempts, strings.Join(e.Providers, ", "), e.Err)
}

// Is implements error matching for errors.Is().
func (e *CanceledError) Is(target error) bool {
	return target == ErrCanceled
}

// Unwrap returns the context error.
func (e *CanceledError) Unwrap() error {
	return e.Err
}
