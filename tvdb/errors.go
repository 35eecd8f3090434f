package tvdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrAPIKeyRequired indicates a key-gated call on a client without an API key
	ErrAPIKeyRequired = errors.New("tvdb: API key required")
	// ErrClientNotAvailable indicates lazy resolution on an entity with no bound client
	ErrClientNotAvailable = errors.New("tvdb: client not available")
	// ErrAPIResponse matches every *ResponseError via errors.Is
	ErrAPIResponse = errors.New("tvdb: API response error")
	// ErrNotFound indicates the response held no matching element
	ErrNotFound = errors.New("tvdb: record not found")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("tvdb: invalid configuration")
)

// ResponseError wraps a transport, status or parse failure for one request
type ResponseError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *ResponseError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d: %v", ErrAPIResponse, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrAPIResponse, e.URL, e.Err)
}

// Unwrap returns the underlying failure
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrAPIResponse
func (e *ResponseError) Is(target error) bool {
	return target == ErrAPIResponse
}

// IsNotFound checks if the server answered 404
func (e *ResponseError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
