package wsbinder

import (
	"errors"
	"fmt"

	"github.com/aalemi-dev/tracewire/tracectx"
)

var (
	// ErrAlreadyConnected is returned by Connect while Connecting or Open.
	ErrAlreadyConnected = errors.New("already connected/connecting")

	// ErrNotOpen is returned by Send unless the connection is Open.
	ErrNotOpen = errors.New("ws not open")

	// ErrClosedDuringConnect is the cause of a connect aborted by Close.
	ErrClosedDuringConnect = errors.New("closed while connecting")

	// ErrInvalidURL is returned by NewClient for a non ws/wss URL.
	ErrInvalidURL = errors.New("websocket URL must use ws or wss")
)

// DialError is a failed or aborted connect.
type DialError struct {
	// URL is the endpoint with the token redacted.
	URL string
	// StatusCode is the HTTP status of a rejected handshake, 0 otherwise.
	StatusCode int
	// Trace is the connect operation's context.
	Trace tracectx.TraceContext
	Err   error
}

func (e *DialError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ws connect %s: %v (status %d)", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("ws connect %s: %v", e.URL, e.Err)
}

func (e *DialError) Unwrap() error {
	return e.Err
}
