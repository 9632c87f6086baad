package backend

import "fmt"

// TransportError represents a failure to obtain a response from the backend.
// This covers connection failures, timeouts, and failures reading the
// response body. A response with any HTTP status is not a TransportError.
type TransportError struct {
	// URL is the backend endpoint the request was sent to
	URL string

	// Timeout is true when the request exceeded the configured timeout
	Timeout bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("backend request to %s timed out: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("backend request to %s failed: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
