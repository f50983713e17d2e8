package providers

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be checked with errors.Is().
var (
	// ErrConfiguration matches any ConfigurationError.
	ErrConfiguration = errors.New("gateway configuration error")

	// ErrRejected matches any RejectedError.
	ErrRejected = errors.New("provider rejected request")

	// ErrUnreachable matches any UnreachableError.
	ErrUnreachable = errors.New("provider unreachable")

	// ErrMalformedResponse matches any EmptyResponseError.
	ErrMalformedResponse = errors.New("provider returned malformed response")
)

// ConfigurationError is a fatal setup problem detected before any network I/O,
// such as a missing credential or an empty provider list.
type ConfigurationError struct {
	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for field %q: %s", e.Field, e.Message)
}

// Is implements error matching for errors.Is().
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// RejectedError represents a non-2xx answer from a provider.
type RejectedError struct {
	// Provider is the identifier of the provider that rejected the request
	Provider string

	// StatusCode is the HTTP status code
	StatusCode int

	// Reason is the failure reason extracted from the response body
	Reason string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	return fmt.Sprintf("provider %q rejected request (status %d): %s", e.Provider, e.StatusCode, e.Reason)
}

// Is implements error matching for errors.Is().
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// UnreachableError represents a socket, DNS, timeout or offline failure.
type UnreachableError struct {
	// Provider is the identifier of the provider that could not be reached
	Provider string

	// Reason is the underlying network error text
	Reason string
}

// Error implements the error interface.
func (e *UnreachableError) Error() string {
	return fmt.Sprintf("provider %q unreachable: %s", e.Provider, e.Reason)
}

// Is implements error matching for errors.Is().
func (e *UnreachableError) Is(target error) bool {
	return target == ErrUnreachable
}

// EmptyResponseError represents a 2xx response without usable content.
type EmptyResponseError struct {
	Provider string
}

// Error implements the error interface.
func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("provider %q returned an empty response", e.Provider)
}

// Is implements error matching for errors.Is().
func (e *EmptyResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
