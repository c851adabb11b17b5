package receiver

import (
	"net/http"
	"net/url"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/tracectx"
)

// Carrier locations, used as the Source of an Extracted value.
const (
	SourceHeader   = "header"
	SourceQuery    = "query"
	SourceEnvelope = "envelope"
	SourceKafka    = "kafka"
)

// Extracted is an inbound carrier after decoding.
type Extracted struct {
	// Source is where the carrier was found.
	Source string
	// Trace is the decoded context; zero unless Valid.
	Trace tracectx.TraceContext
	// State is the opaque state blob, passed through unchanged.
	State string
	// Present reports that a non-empty carrier field was found.
	Present bool
	// Err is the decode error of a present but malformed carrier.
	Err error
}

// Valid reports whether the carrier decoded successfully.
func (e Extracted) Valid() bool {
	return e.Present && e.Err == nil
}

func extract(source, encoded, state string) Extracted {
	e := Extracted{Source: source, State: state}
	if encoded == "" {
		return e
	}
	e.Present = true
	e.Trace, e.Err = carrier.Decode(encoded)
	return e
}

// FromHeader reads the trace-parent and trace-state headers.
func FromHeader(h http.Header) Extracted {
	return extract(SourceHeader, h.Get(carrier.HeaderTraceParent), h.Get(carrier.HeaderTraceState))
}

// FromQuery reads the sentryTrace and baggage query parameters.
func FromQuery(v url.Values) Extracted {
	return extract(SourceQuery, v.Get(carrier.QueryTrace), v.Get(carrier.QueryBaggage))
}

// FromRequest prefers the headers of r and falls back to its query, which
// is where WebSocket handshakes carry the context.
func FromRequest(r *http.Request) Extracted {
	if e := FromHeader(r.Header); e.Present {
		return e
	}
	return FromQuery(r.URL.Query())
}

// FromEnvelope reads the _trace field of a message envelope.
func FromEnvelope(env carrier.Envelope) Extracted {
	if env.Trace == nil {
		return Extracted{Source: SourceEnvelope}
	}
	return extract(SourceEnvelope, env.Trace.SentryTrace, env.Trace.Baggage)
}

// FromMap reads trace-parent and trace-state from message headers, such as
// those of a Kafka record.
func FromMap(m map[string]string) Extracted {
	return extract(SourceKafka, m[carrier.HeaderTraceParent], m[carrier.HeaderTraceState])
}
