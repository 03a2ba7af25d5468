package api

import (
	"errors"
	"fmt"
)

// Client errors.
var (
	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: expected http(s)://host[:port]")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not
	// in host:port form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrUnreachable wraps transport failures: the backend could not be
	// reached or did not answer.
	ErrUnreachable = errors.New("cannot reach server")

	// ErrRequestFailed matches every *Error with errors.Is.
	ErrRequestFailed = errors.New("request failed")

	// ErrInvalidID is returned for non-positive file or archive identifiers.
	ErrInvalidID = errors.New("identifier must be a positive integer")

	// ErrEmptyQuery is returned by Search for a blank query.
	ErrEmptyQuery = errors.New("search query must not be empty")
)

// defaultErrorMessage is used when an error response carries no message.
const defaultErrorMessage = "Request failed"

// Error is a non-2xx response from the backend.
type Error struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the body's "detail" field, else its "error" field, else
	// "Request failed".
	Message string
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// Is reports whether target is ErrRequestFailed.
func (e *Error) Is(target error) bool {
	return target == ErrRequestFailed
}
