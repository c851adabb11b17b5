// Package observability defines the single hook through which transport and
// propagation packages report completed operations.
//
// Packages accept an optional Observer (through a WithObserver builder or an
// fx optional dependency) and call it once per operation:
//
//	func (c *Client) observeOperation(op, resource string, start time.Time, tc tracectx.TraceContext, err error) {
//	    if c.observer == nil {
//	        return
//	    }
//	    c.observer.ObserveOperation(observability.OperationContext{
//	        Component: observability.ComponentHTTP,
//	        Operation: op,
//	        Resource:  resource,
//	        TraceID:   tc.TraceID.String(),
//	        Duration:  time.Since(start),
//	        Error:     err,
//	    })
//	}
//
// Applications implement Observer to turn events into metrics or logs; the
// metrics package ships a Prometheus implementation.
//
// # Examples
//
// HTTP request:
//
//	OperationContext{
//	    Component:   "http",
//	    Operation:   "request",
//	    Resource:    "/auth/login",
//	    SubResource: "POST",
//	    Duration:    23 * time.Millisecond,
//	    Metadata:    map[string]interface{}{"status": 200},
//	}
//
// WebSocket message:
//
//	OperationContext{
//	    Component:   "websocket",
//	    Operation:   "send",
//	    Resource:    "ws://localhost:3001/ws/demo",
//	    SubResource: "ping",
//	    Size:        128,
//	}
//
// Malformed inbound carrier:
//
//	OperationContext{
//	    Component: "carrier",
//	    Operation: "decode",
//	    Resource:  "envelope",
//	    Error:     carrier.ErrMalformedCarrier,
//	}
//
// # Thread Safety
//
// Observer implementations must be thread-safe. They will be called concurrently
// from multiple goroutines.
package observability
