package carrier

import (
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/tracewire/tracectx"
)

// Transport field names.
const (
	HeaderTraceParent = "trace-parent"
	HeaderTraceState  = "trace-state"

	QueryTrace   = "sentryTrace"
	QueryBaggage = "baggage"
	QueryToken   = "token"
)

// ErrMalformedCarrier is returned by Decode for any input that is not a valid
// encoded trace context.
var ErrMalformedCarrier = errors.New("malformed trace carrier")

// Encode renders tc in wire form.
func Encode(tc tracectx.TraceContext) string {
	return tc.String()
}

// Decode parses the wire form produced by Encode.
func Decode(s string) (tracectx.TraceContext, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return tracectx.TraceContext{}, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedCarrier, len(parts))
	}

	if !isLowerHex(parts[0]) || !isLowerHex(parts[1]) {
		return tracectx.TraceContext{}, fmt.Errorf("%w: ids must be lowercase hex", ErrMalformedCarrier)
	}

	traceID, err := trace.TraceIDFromHex(parts[0])
	if err != nil {
		return tracectx.TraceContext{}, fmt.Errorf("%w: trace id: %v", ErrMalformedCarrier, err)
	}

	spanID, err := trace.SpanIDFromHex(parts[1])
	if err != nil {
		return tracectx.TraceContext{}, fmt.Errorf("%w: span id: %v", ErrMalformedCarrier, err)
	}

	var sampled bool
	switch parts[2] {
	case "1":
		sampled = true
	case "0":
	default:
		return tracectx.TraceContext{}, fmt.Errorf("%w: sampled flag %q", ErrMalformedCarrier, parts[2])
	}

	return tracectx.TraceContext{TraceID: traceID, SpanID: spanID, Sampled: sampled}, nil
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
