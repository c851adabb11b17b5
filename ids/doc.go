// Package ids mints the identifiers carried by a trace context.
//
// A trace id is 128 bits and a span id is 64 bits, both drawn from a
// cryptographically strong entropy source. The package never falls back to a
// weak source: when entropy cannot be read the caller gets ErrEntropyUnavailable
// and decides how to degrade (the scope package runs the operation untraced).
//
// # Usage
//
//	gen := ids.Default()
//	traceID, err := gen.NewTraceID()
//	if err != nil {
//	    // entropy unavailable
//	}
//	spanID, err := gen.NewSpanID()
//
// Tests can inject a deterministic or failing reader:
//
//	gen := ids.NewGeneratorWithEntropy(bytes.NewReader(seed))
//
// Generator is safe for concurrent use.
package ids
