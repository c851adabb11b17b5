// Package tracectx defines the immutable trace context value and its storage
// on a context.Context.
//
// A TraceContext identifies one span inside one logical operation. Roots get a
// fresh trace id; children keep the parent's trace id and sampled flag and get
// a fresh span id. Values are never mutated: deriving always returns a new one.
package tracectx

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// IDSource mints identifiers. *ids.Generator satisfies it.
type IDSource interface {
	NewTraceID() (trace.TraceID, error)
	NewSpanID() (trace.SpanID, error)
}

// TraceContext is the active trace identity of an operation.
type TraceContext struct {
	TraceID trace.TraceID
	SpanID  trace.SpanID
	Sampled bool
}

// NewRoot starts a new trace.
func NewRoot(src IDSource, sampled bool) (TraceContext, error) {
	traceID, err := src.NewTraceID()
	if err != nil {
		return TraceContext{}, err
	}
	spanID, err := src.NewSpanID()
	if err != nil {
		return TraceContext{}, err
	}
	return TraceContext{TraceID: traceID, SpanID: spanID, Sampled: sampled}, nil
}

// DeriveChild returns a context in the same trace with a fresh span id.
func DeriveChild(src IDSource, parent TraceContext) (TraceContext, error) {
	spanID, err := src.NewSpanID()
	if err != nil {
		return TraceContext{}, err
	}
	return TraceContext{TraceID: parent.TraceID, SpanID: spanID, Sampled: parent.Sampled}, nil
}

// IsValid reports whether both identifiers are non-zero.
func (tc TraceContext) IsValid() bool {
	return tc.TraceID.IsValid() && tc.SpanID.IsValid()
}

// String renders the wire form "<trace>-<span>-<0|1>".
func (tc TraceContext) String() string {
	flag := "0"
	if tc.Sampled {
		flag = "1"
	}
	return tc.TraceID.String() + "-" + tc.SpanID.String() + "-" + flag
}

// SpanContext converts to an OpenTelemetry span context.
func (tc TraceContext) SpanContext(remote bool) trace.SpanContext {
	var flags trace.TraceFlags
	if tc.Sampled {
		flags = trace.FlagsSampled
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tc.TraceID,
		SpanID:     tc.SpanID,
		TraceFlags: flags,
		Remote:     remote,
	})
}

// FromSpanContext converts an OpenTelemetry span context.
func FromSpanContext(sc trace.SpanContext) (TraceContext, bool) {
	if !sc.IsValid() {
		return TraceContext{}, false
	}
	return TraceContext{TraceID: sc.TraceID(), SpanID: sc.SpanID(), Sampled: sc.IsSampled()}, true
}

type contextKey int

const (
	traceKey contextKey = iota
	stateKey
)

// NewContext returns a copy of ctx carrying tc. Storing the zero value masks
// any context inherited from ctx.
func NewContext(ctx context.Context, tc TraceContext) context.Context {
	return context.WithValue(ctx, traceKey, tc)
}

// FromContext returns the active trace context, if any.
func FromContext(ctx context.Context) (TraceContext, bool) {
	if ctx == nil {
		return TraceContext{}, false
	}
	tc, ok := ctx.Value(traceKey).(TraceContext)
	if !ok || !tc.IsValid() {
		return TraceContext{}, false
	}
	return tc, true
}

// WithState attaches the opaque vendor state blob.
func WithState(ctx context.Context, state string) context.Context {
	return context.WithValue(ctx, stateKey, state)
}

// StateFromContext returns the state blob, or "".
func StateFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(stateKey).(string)
	return s
}
