// Package wsbinder is a WebSocket client that carries trace context on the
// handshake and on every outgoing message.
//
// The connection moves through Idle, Connecting, Open and Closed. Connect runs
// the dial under a root scope named "ws connect" whose carrier is sent as the
// sentryTrace and baggage query parameters next to the auth token, because
// browsers and many proxies cannot set handshake headers. That scope ends
// exactly once, when the connection leaves Connecting, and is marked failed
// when the dial fails or is aborted by Close.
//
// Each Send starts an independent root scope "ws.send.<type>". A message never
// shares a trace with the connect operation, with other messages or with the
// caller's context:
//
//	client, _ := wsbinder.NewClient(wsbinder.Config{URL: "ws://localhost:3001/ws/demo"}, scopes)
//	client.WithHandlers(wsbinder.Handlers{
//	    OnMessage: func(data []byte) { fmt.Println(string(data)) },
//	})
//	if err := client.Connect(ctx, token); err != nil {
//	    return err
//	}
//	tc, err := client.Send(ctx, "ping", nil)
//
// The envelope is {type, payload, _trace: {sentryTrace, baggage}}; see
// carrier.Envelope.
//
// Handlers run on the client's goroutines. They must not call Close, which
// waits for the read loop to finish.
package wsbinder
