// Package demoserver is the backend the tracedemo client talks to.
//
// It serves the auth endpoints and a WebSocket endpoint, and continues the
// trace carried by every inbound request, connection and message:
//
//	POST /auth/register   {name,email,password,age?} -> {"data":{"accessToken":...}}
//	POST /auth/login      {email,password}           -> {"token":...} or 401
//	GET  /ws/demo?token=&sentryTrace=&baggage=        -> WebSocket upgrade
//
// HTTP requests run under receiver.Middleware. Each WebSocket envelope runs
// in a child scope of its own _trace carrier, or in a fresh root when the
// carrier is missing or malformed, so concurrent messages on one connection
// never share a trace.
//
// Message types:
//
//	ping  -> {"type":"pong"}
//	work  -> sleeps payload.ms (capped by Config.MaxWork), then {"type":"work.done"}
//	boom  -> fails the message span, then {"type":"error"}
//	other -> {"type":"error","message":"unknown message type"}
//
// When a publisher is configured every handled message is also published as
// an Event in the handler's scope. EventLog consumes those events and logs
// them in the trace of the message that produced them.
package demoserver
