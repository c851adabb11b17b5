package httpbinder

import (
	"errors"
	"fmt"

	"github.com/aalemi-dev/tracewire/tracectx"
)

// ErrInvalidBaseURL is returned by NewClient when Config.BaseURL is not an
// absolute http(s) URL.
var ErrInvalidBaseURL = errors.New("base URL must be an absolute http(s) URL")

// HTTPError is a response with a non-2xx status. Its message is meant to be
// shown to the user unchanged.
type HTTPError struct {
	StatusCode int
	// StatusText is the reason phrase, e.g. "Unauthorized".
	StatusText string
	Method     string
	URL        string
	// Body is the decoded response body: JSON value, raw text or nil.
	Body interface{}
	// Trace is the context the request was sent under. Zero when untraced.
	Trace tracectx.TraceContext
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, e.StatusText)
}

// TransportError is a request that produced no response. Err is the cause
// unchanged, so errors.Is(err, context.DeadlineExceeded) and similar checks
// work through it.
type TransportError struct {
	Method string
	URL    string
	Trace  tracectx.TraceContext
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
