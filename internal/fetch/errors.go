package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransportError reports a request that never produced an HTTP response.
//
// Transport errors include:
//   - Connection refused or reset
//   - DNS resolution failure
//   - Timeout expiry (client timeout or context deadline)
type TransportError struct {
	// URL is the fully encoded request URL.
	URL string

	// Err is the underlying net/http error.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because a deadline expired.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// HTTPStatusError reports a response whose status code was not 200.
type HTTPStatusError struct {
	URL    string
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s -> HTTP %d", e.URL, e.Status)
}

// DecodeError reports a 200 response whose body was not valid JSON
// (or did not fit the target type).
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s -> invalid JSON: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsTransport returns true if err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsHTTPStatus returns true if err is (or wraps) an HTTPStatusError.
func IsHTTPStatus(err error) bool {
	var se *HTTPStatusError
	return errors.As(err, &se)
}

// IsDecode returns true if err is (or wraps) a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// HTTPStatusError.
func StatusOf(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
