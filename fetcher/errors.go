package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrBodyTooLarge is returned when a response body exceeds the configured
	// maximum body size.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrNotHTML is returned by callers that require an html response and
	// received something else.
	ErrNotHTML = errors.New("response is not html")
)

// StatusError is returned for responses with a non 2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %q", e.StatusCode, e.URL)
}

// RedirectError is returned for 3xx responses that carry a Location header.
type RedirectError struct {
	URL        string
	StatusCode int

	// Absolute url the response points to.
	Location string
}

// Error implements the error interface.
func (e *RedirectError) Error() string {
	return fmt.Sprintf("%q redirects to %q with status code %d", e.URL, e.Location, e.StatusCode)
}
