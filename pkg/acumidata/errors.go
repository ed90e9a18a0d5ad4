package acumidata

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrUnknownKind is returned when a report kind has no endpoint mapping.
	ErrUnknownKind = errors.New("unknown report kind")

	// ErrEmptyResponse is returned when the provider replies with no body
	// where a JSON document is expected.
	ErrEmptyResponse = errors.New("empty provider response")
)

// ProviderError represents a failed provider call with enough context for a
// per-record error message. One failed call is terminal for its record; the
// client never retries.
type ProviderError struct {
	Endpoint   string
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("acumidata %s error (%s): %s: %v",
			e.Class, e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("acumidata %s error (%s, status %d): %s",
		e.Class, e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}
