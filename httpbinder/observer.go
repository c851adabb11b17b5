package httpbinder

import (
	"time"

	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/tracectx"
)

// observeOperation safely calls the observer if it's not nil.
func (c *HTTPClient) observeOperation(path, method string, tc tracectx.TraceContext, duration time.Duration, err error, status int, size int64) {
	if c.observer == nil {
		return
	}
	var traceID string
	if tc.IsValid() {
		traceID = tc.TraceID.String()
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component:   observability.ComponentHTTP,
		Operation:   "request",
		Resource:    path,
		SubResource: method,
		TraceID:     traceID,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    map[string]interface{}{"status": status},
	})
}
