package demoserver

import (
	"context"
	"time"
)

// Defaults applied by New.
const (
	DefaultAddr         = ":3001"
	DefaultLoginPath    = "/auth/login"
	DefaultRegisterPath = "/auth/register"
	DefaultWSPath       = "/ws/demo"
	DefaultWork         = 800 * time.Millisecond
	DefaultMaxWork      = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultReadLimit    = 64 << 10
)

// Config configures the demo backend.
type Config struct {
	// Addr is the listen address, e.g. ":3001".
	Addr string

	LoginPath    string
	RegisterPath string
	WSPath       string

	// MaxWork caps the sleep requested by a work message.
	MaxWork time.Duration

	// WriteTimeout bounds a single WebSocket write.
	WriteTimeout time.Duration

	// ReadLimit is the largest WebSocket message accepted, in bytes.
	ReadLimit int64
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LoginPath == "" {
		c.LoginPath = DefaultLoginPath
	}
	if c.RegisterPath == "" {
		c.RegisterPath = DefaultRegisterPath
	}
	if c.WSPath == "" {
		c.WSPath = DefaultWSPath
	}
	if c.MaxWork <= 0 {
		c.MaxWork = DefaultMaxWork
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = DefaultReadLimit
	}
	return c
}

// Logger is the subset of logger.Logger used by the server.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Publisher sends events. kafka.Client implements it.
type Publisher interface {
	Publish(ctx context.Context, key string, data interface{}, headers ...map[string]interface{}) error
}
