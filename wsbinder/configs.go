package wsbinder

import (
	"context"
	"time"
)

// Defaults applied by NewClient.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultCloseGrace       = 2 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
)

// Config configures the WebSocket client.
type Config struct {
	// URL is the full ws:// or wss:// endpoint, e.g. "ws://localhost:3001/ws/demo".
	// Existing query parameters are kept.
	URL string

	// HandshakeTimeout bounds the dial and the upgrade handshake.
	HandshakeTimeout time.Duration

	// CloseGrace is how long Close waits for the server to answer the close
	// frame before dropping the connection.
	CloseGrace time.Duration

	// WriteTimeout bounds a single message write.
	WriteTimeout time.Duration
}

// Handlers receive connection events. Any of them may be nil.
type Handlers struct {
	OnOpen        func()
	OnMessage     func(data []byte)
	OnClose       func(code int, reason string)
	OnError       func(err error)
	OnStateChange func(from, to State)
}

// Logger is the subset of logger.Logger used by the client.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
