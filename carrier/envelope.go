package carrier

import "github.com/aalemi-dev/tracewire/tracectx"

// Envelope is the JSON body of every WebSocket message.
type Envelope struct {
	Type    string         `json:"type"`
	Payload interface{}    `json:"payload"`
	Trace   *EnvelopeTrace `json:"_trace,omitempty"`
}

// EnvelopeTrace is the per-message carrier.
type EnvelopeTrace struct {
	SentryTrace string `json:"sentryTrace"`
	Baggage     string `json:"baggage"`
}

// NewEnvelope builds an envelope carrying tc. An invalid tc produces an
// envelope without a _trace field.
func NewEnvelope(msgType string, payload interface{}, tc tracectx.TraceContext, state string) Envelope {
	env := Envelope{Type: msgType, Payload: payload}
	if tc.IsValid() {
		env.Trace = &EnvelopeTrace{SentryTrace: Encode(tc), Baggage: state}
	}
	return env
}
