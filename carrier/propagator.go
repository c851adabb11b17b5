package carrier

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/tracewire/tracectx"
)

// Propagator implements propagation.TextMapPropagator over the trace-parent
// and trace-state headers.
type Propagator struct{}

var _ propagation.TextMapPropagator = Propagator{}

// Inject writes the active trace context of ctx into c. The scope context
// wins over the OpenTelemetry span context when both are present.
func (Propagator) Inject(ctx context.Context, c propagation.TextMapCarrier) {
	tc, ok := tracectx.FromContext(ctx)
	if !ok {
		tc, ok = tracectx.FromSpanContext(trace.SpanContextFromContext(ctx))
	}
	if !ok {
		return
	}

	c.Set(HeaderTraceParent, Encode(tc))
	if state := tracectx.StateFromContext(ctx); state != "" {
		c.Set(HeaderTraceState, state)
	}
}

// Extract reads a remote parent from c. Malformed or missing values leave ctx
// unchanged.
func (Propagator) Extract(ctx context.Context, c propagation.TextMapCarrier) context.Context {
	tc, err := Decode(c.Get(HeaderTraceParent))
	if err != nil {
		return ctx
	}

	ctx = tracectx.NewContext(ctx, tc)
	ctx = trace.ContextWithRemoteSpanContext(ctx, tc.SpanContext(true))
	if state := c.Get(HeaderTraceState); state != "" {
		ctx = tracectx.WithState(ctx, state)
	}
	return ctx
}

// Fields returns the header names this propagator uses.
func (Propagator) Fields() []string {
	return []string{HeaderTraceParent, HeaderTraceState}
}
