package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActiveThread indicates no conversation is selected.
	// Submitting a message requires an active thread.
	ErrNoActiveThread = errors.New("no active thread")

	// ErrExchangeInFlight indicates an exchange is already streaming
	// for the active thread. Submissions are rejected, not queued.
	ErrExchangeInFlight = errors.New("exchange already in flight")

	// ErrNoFailedExchange indicates retry was requested but the last
	// exchange did not fail.
	ErrNoFailedExchange = errors.New("no failed exchange to retry")

	// Authentication errors.

	// ErrNotAuthenticated indicates there is no valid session. The
	// user must sign in before talking to the backend.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired indicates the backend rejected the stored
	// credential. The session has been invalidated.
	ErrSessionExpired = errors.New("session expired, please sign in again")
)

// HTTPError reports a non-2xx response received before streaming
// began. The exchange never reaches the streaming phase.
type HTTPError struct {
	// Status is the HTTP status code.
	Status int

	// Detail is the error detail from the response body, if any.
	Detail string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// ProtocolError reports an error frame received mid-stream. The
// message is surfaced verbatim as the exchange failure reason.
type ProtocolError struct {
	// Message is the error text from the stream.
	Message string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return e.Message
}
