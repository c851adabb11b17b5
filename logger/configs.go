package logger

// Log level constants accepted by Config.Level.
const (
	// Debug outputs every message.
	Debug = "debug"

	// Info suppresses debug messages.
	Info = "info"

	// Warning outputs only warnings and errors.
	Warning = "warning"

	// Error outputs only errors.
	Error = "error"
)

// Config defines the configuration structure for the logger.
type Config struct {
	// Level determines the minimum log level that will be output.
	// Unknown values fall back to "info".
	Level string

	// EnableTracing adds trace_id, span_id and sampled fields to entries
	// logged through the *WithContext methods when the context carries an
	// active trace context.
	EnableTracing bool

	// ServiceName populates the "service" field of every entry.
	ServiceName string

	// CallerSkip controls the number of stack frames to skip when reporting the caller.
	//
	// Guidelines for setting CallerSkip:
	//   - 1 (default): Use when calling the logger directly from your code
	//   - 2: Use when you have one additional wrapper layer
	//   - 3+: Use when you have multiple wrapper layers
	//
	// If not set or set to 0, defaults to 1.
	CallerSkip int

	// OutputPaths overrides the destinations of log entries. Defaults to stderr.
	OutputPaths []string
}
