package observability

import "time"

// Component names reported by the transport packages.
const (
	ComponentHTTP      = "http"
	ComponentWebSocket = "websocket"
	ComponentKafka     = "kafka"
	ComponentCarrier   = "carrier"
	ComponentScope     = "scope"
)

// Observer receives one event per completed transport or propagation
// operation. Packages work without an observer; it is always optional.
type Observer interface {
	// ObserveOperation is called when an operation completes.
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a completed operation.
type OperationContext struct {
	// Component identifies the package that performed the operation.
	// One of the Component* constants.
	Component string

	// Operation describes what was done.
	// Examples:
	//   HTTP:      "request"
	//   WebSocket: "connect", "send", "receive", "close"
	//   Kafka:     "produce", "consume"
	//   Carrier:   "decode"
	//   Scope:     "end"
	Operation string

	// Resource identifies the primary resource.
	// Examples: request path ("/auth/login"), ws endpoint, Kafka topic,
	// carrier source ("header", "query", "envelope").
	Resource string

	// SubResource provides additional resource context (optional).
	// Examples: HTTP method, ws message type, Kafka partition.
	SubResource string

	// TraceID is the hex trace id the operation ran under, or "" when the
	// operation was untraced.
	TraceID string

	// Duration is how long the operation took from start to completion.
	Duration time.Duration

	// Error is the error returned by the operation, if any.
	Error error

	// Size represents the size of data involved in the operation (optional),
	// usually bytes written or read.
	Size int64

	// Metadata provides additional operation-specific information (optional).
	// Examples: {"status": 401}, {"close_code": 1000}.
	Metadata map[string]interface{}
}
