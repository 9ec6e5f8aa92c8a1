package discover

import (
	"errors"
	"fmt"
	"net/http"
)

// Input validation errors. These are returned before any network activity.
var (
	// ErrInvalidSeed is returned when the seed is not an absolute http(s) URL.
	ErrInvalidSeed = errors.New("invalid seed: must be an absolute http or https URL")

	// ErrNegativeLimit is returned when the limit is below zero.
	ErrNegativeLimit = errors.New("invalid limit: must be non-negative")
)

// Retrieval and parsing errors. They are wrapped by FetchError and ParseError.
var (
	// ErrUnexpectedStatus is the cause recorded in a FetchError when the seed
	// answered with a non-2xx status code.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrNotMarkup is the cause recorded in a ParseError when the response
	// declares a content type that cannot hold a markup document.
	ErrNotMarkup = errors.New("content is not a markup document")
)

// FetchError reports that the seed document could not be retrieved.
// It covers transport failures, timeouts and non-success status codes.
type FetchError struct {
	// URL is the seed that was requested.
	URL string

	// StatusCode is the HTTP status of the response, or 0 when no response
	// was received.
	StatusCode int

	// Body holds the beginning of an error response body, if any.
	// At most maxErrorBodySize bytes are kept.
	Body []byte

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v %d %s", e.URL, e.Err, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports that the retrieved document could not be interpreted
// as markup.
type ParseError struct {
	// URL is the seed whose body failed to parse.
	URL string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}
