package tracer

import (
	"context"

	"github.com/aalemi-dev/tracewire/tracectx"
)

// Tracer records spans for operations running inside a scope.
//
// This interface is implemented by the concrete *TracerClient type.
type Tracer interface {
	// StartSpan creates a span under the span already in ctx (if any).
	// Always call span.End() when the operation completes.
	StartSpan(ctx context.Context, name string) (context.Context, Span)

	// StartRootSpan creates a span that ignores any parent in ctx and starts
	// a new trace.
	StartRootSpan(ctx context.Context, name string) (context.Context, Span)

	// GetCarrier renders the active trace context of ctx as transport headers.
	GetCarrier(ctx context.Context) map[string]string

	// SetCarrierOnContext installs a remote parent decoded from headers.
	// Malformed headers leave ctx unchanged.
	SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context
}

// Span represents one traced operation.
type Span interface {
	// End completes the span and hands it to the configured processors.
	End()

	// SetAttributes adds key-value attributes. Strings, ints, floats and
	// bools keep their type; anything else is formatted with fmt.Sprint.
	SetAttributes(attrs map[string]interface{})

	// RecordError records err as an event and marks the span failed.
	RecordError(err error)

	// TraceContext returns the identity of the span.
	TraceContext() (tracectx.TraceContext, bool)
}
