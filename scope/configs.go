package scope

import "context"

// DefaultSampleRate samples every new trace.
const DefaultSampleRate = 1.0

// Config controls how new traces are started.
type Config struct {
	// SampleRate is the probability in [0, 1] that a new root is sampled.
	// nil means DefaultSampleRate.
	SampleRate *float64

	// State is the opaque vendor state blob sent alongside every carrier
	// when the operation has none of its own (trace-state / baggage).
	State string
}

// Rate is a helper for setting Config.SampleRate.
func Rate(v float64) *float64 {
	return &v
}

// Logger is the subset of logger.Logger used by the manager.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
