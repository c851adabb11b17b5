package wsbinder

import (
	"time"

	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/tracectx"
)

// observeOperation safely calls the observer if it's not nil.
func (c *WSClient) observeOperation(operation, msgType string, tc tracectx.TraceContext, duration time.Duration, err error, size int64) {
	if c.observer == nil {
		return
	}
	var traceID string
	if tc.IsValid() {
		traceID = tc.TraceID.String()
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component:   observability.ComponentWebSocket,
		Operation:   operation,
		Resource:    c.endpoint.Host + c.endpoint.Path,
		SubResource: msgType,
		TraceID:     traceID,
		Duration:    duration,
		Error:       err,
		Size:        size,
	})
}
