// Package receiver continues client-originated traces on the server side.
//
// A carrier can arrive in four places: the trace-parent/trace-state HTTP
// headers, the sentryTrace/baggage query parameters of a WebSocket
// handshake, the _trace field of a message envelope, and Kafka message
// headers. The From* functions extract it into an Extracted value, and
// Receiver.Start opens the handler's scope:
//
//   - a valid carrier becomes the remote parent, so the handler span joins
//     the sender's trace;
//   - a missing carrier starts a fresh root;
//   - a malformed carrier is logged at debug level, counted, and also starts
//     a fresh root. It never fails the request.
//
// Middleware wires this into gin:
//
//	rcv := receiver.New(scopes).WithLogger(log)
//	engine.Use(rcv.Middleware())
package receiver
