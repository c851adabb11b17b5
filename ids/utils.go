package ids

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/trace"
)

// NewTraceID returns a fresh non-zero 128-bit trace id.
func (g *Generator) NewTraceID() (trace.TraceID, error) {
	var id trace.TraceID
	if err := g.fill(id[:]); err != nil {
		return trace.TraceID{}, err
	}
	return id, nil
}

// NewSpanID returns a fresh non-zero 64-bit span id.
func (g *Generator) NewSpanID() (trace.SpanID, error) {
	var id trace.SpanID
	if err := g.fill(id[:]); err != nil {
		return trace.SpanID{}, err
	}
	return id, nil
}

func (g *Generator) fill(b []byte) error {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	for i := 0; i < maxDraws; i++ {
		if _, err := io.ReadFull(g.entropy, b); err != nil {
			return fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
		}
		if !allZero(b) {
			return nil
		}
	}
	return fmt.Errorf("%w: source returned only zero bytes", ErrEntropyUnavailable)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
