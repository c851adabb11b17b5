// Package carrier encodes a trace context for transport and decodes it on the
// receiving side.
//
// The wire form is a single string:
//
//	<32 lowercase hex trace id>-<16 lowercase hex span id>-<0|1>
//
// where the last field is the sampled flag. Decode is strict: anything that is
// not exactly three fields, lowercase hex of the right width, non-zero ids and
// a 0/1 flag fails with ErrMalformedCarrier. Decode never panics, and
// Decode(Encode(tc)) == tc for every valid tc.
//
// # Field Names
//
// The same encoded value travels under a different name per transport:
//
//	HTTP request headers:      trace-parent, trace-state
//	WebSocket connect query:   sentryTrace, baggage (and the auth token)
//	WebSocket message body:    {"type", "payload", "_trace": {"sentryTrace", "baggage"}}
//	Kafka message headers:     trace-parent, trace-state
//
// The state blob (trace-state / baggage) is opaque vendor metadata and is
// forwarded verbatim.
//
// # OpenTelemetry
//
// Propagator adapts the codec to propagation.TextMapPropagator so
// OpenTelemetry-aware code injects and extracts the same headers:
//
//	otel.SetTextMapPropagator(carrier.Propagator{})
package carrier
