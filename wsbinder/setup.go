package wsbinder

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/scope"
)

// WSClient is a single reconnectable WebSocket connection. All methods are
// safe for concurrent use.
type WSClient struct {
	cfg       Config
	endpoint  *url.URL
	dialer    websocket.Dialer
	netDialer net.Dialer

	scopes   *scope.Manager
	logger   Logger
	observer observability.Observer
	handlers Handlers

	// mu guards the fields below.
	mu         sync.Mutex
	state      State
	conn       *websocket.Conn
	cancelDial context.CancelFunc
	closing    bool
	done       chan struct{}
	lastURL    string
	attempt    uint64

	// writeMu serializes frame writes on conn.
	writeMu sync.Mutex
}

// NewClient creates an idle client for cfg.URL.
func NewClient(cfg Config, scopes *scope.Manager) (*WSClient, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.CloseGrace == 0 {
		cfg.CloseGrace = DefaultCloseGrace
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	return &WSClient{
		cfg:      cfg,
		endpoint: u,
		dialer: websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		scopes: scopes,
		state:  Idle,
	}, nil
}

// WithHandlers sets the event handlers. Set them before Connect.
func (c *WSClient) WithHandlers(h Handlers) *WSClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = h
	return c
}

// WithLogger attaches a logger for connection diagnostics.
func (c *WSClient) WithLogger(logger Logger) *WSClient {
	c.logger = logger
	return c
}

// WithObserver attaches an observer notified of connects, sends, receives
// and closes.
func (c *WSClient) WithObserver(observer observability.Observer) *WSClient {
	c.observer = observer
	return c
}

// State returns the current connection state.
func (c *WSClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Endpoint returns the URL of the latest connect attempt with the token
// redacted. Before the first Connect it is the configured URL, redacted the
// same way.
func (c *WSClient) Endpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastURL != "" {
		return c.lastURL
	}
	u := *c.endpoint
	if q := u.Query(); q.Get(carrier.QueryToken) != "" {
		q.Set(carrier.QueryToken, redacted)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
