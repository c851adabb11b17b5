// Package panel is the interactive WebSocket demo: a small command set
// (connect, disconnect, ping, work, boom, logout) driving a wsbinder client
// and printing one line per event to an io.Writer.
//
// The output lines are stable and meant to be read by people and tests:
//
//	[connect] ws://localhost:3001/ws/demo?baggage=&sentryTrace=...&token=REDACTED
//	[open]
//	[sent] ping (trace=4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-1)
//	[message] {"type":"pong"}
//	[close] code= 1000 reason=
//
// Install the panel's handlers on the client before the first command:
//
//	p := panel.New(os.Stdout, client, authService)
//	client.WithHandlers(p.Handlers())
//	err := p.Run(ctx, os.Stdin)
package panel
