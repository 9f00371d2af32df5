package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals options that cannot be turned into a structured query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound signals a missing document.
	ErrNotFound = errors.New("not found")
	// ErrTransport signals a failed call to the document endpoint.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse signals a response body that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx answer from the document endpoint.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: http %d", ErrTransport.Error(), e.StatusCode)
	}
	return fmt.Sprintf("%s: http %d %s: %s", ErrTransport.Error(), e.StatusCode, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return ErrTransport }

// NewAPIError creates an APIError.
func NewAPIError(statusCode int, status, message string) error {
	return &APIError{StatusCode: statusCode, Status: status, Message: message}
}
