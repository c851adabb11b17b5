package httpbinder

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config configures the HTTP client.
type Config struct {
	// BaseURL is prefixed to every request path, e.g. "http://localhost:3001".
	BaseURL string

	// PropagationTargets lists the origins (scheme://host[:port]) that receive
	// trace headers. Empty means only the origin of BaseURL.
	PropagationTargets []string

	// Timeout bounds each request, including reading the body.
	Timeout time.Duration
}

// Logger is the subset of logger.Logger used by the client.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
