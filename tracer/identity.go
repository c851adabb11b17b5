package tracer

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/tracewire/ids"
	"github.com/aalemi-dev/tracewire/tracectx"
)

// contextIDGenerator hands the SDK the identifiers of the trace context in
// the start context.
type contextIDGenerator struct {
	fallback *ids.Generator
}

var _ sdktrace.IDGenerator = (*contextIDGenerator)(nil)

func (g *contextIDGenerator) NewIDs(ctx context.Context) (trace.TraceID, trace.SpanID) {
	if tc, ok := tracectx.FromContext(ctx); ok {
		return tc.TraceID, tc.SpanID
	}
	// Entropy failures surface as zero ids, which the SDK treats as an
	// invalid, non-exported span.
	traceID, _ := g.fallback.NewTraceID()
	spanID, _ := g.fallback.NewSpanID()
	return traceID, spanID
}

func (g *contextIDGenerator) NewSpanID(ctx context.Context, traceID trace.TraceID) trace.SpanID {
	if tc, ok := tracectx.FromContext(ctx); ok && tc.TraceID == traceID {
		return tc.SpanID
	}
	spanID, _ := g.fallback.NewSpanID()
	return spanID
}

// contextSampler records and samples according to the sampled flag of the
// trace context in the start context, falling back to the parent span.
type contextSampler struct{}

var _ sdktrace.Sampler = contextSampler{}

func (contextSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	psc := trace.SpanContextFromContext(p.ParentContext)

	sampled := true
	if tc, ok := tracectx.FromContext(p.ParentContext); ok {
		sampled = tc.Sampled
	} else if psc.IsValid() {
		sampled = psc.IsSampled()
	}

	decision := sdktrace.Drop
	if sampled {
		decision = sdktrace.RecordAndSample
	}
	return sdktrace.SamplingResult{Decision: decision, Tracestate: psc.TraceState()}
}

func (contextSampler) Description() string {
	return "TraceContextSampler"
}
