package demoserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/aalemi-dev/tracewire/metrics"
	"github.com/aalemi-dev/tracewire/receiver"
	"github.com/aalemi-dev/tracewire/scope"
)

// Server is the demo backend.
type Server struct {
	cfg       Config
	users     *Users
	receiver  *receiver.Receiver
	scopes    *scope.Manager
	logger    Logger
	publisher Publisher
	metrics   *serverMetrics
	upgrader  websocket.Upgrader

	engine *gin.Engine

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// New creates a Server. rcv must be built on scopes.
func New(cfg Config, rcv *receiver.Receiver, scopes *scope.Manager) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg:      cfg,
		users:    NewUsers(),
		receiver: rcv,
		scopes:   scopes,
		upgrader: websocket.Upgrader{
			// The demo client connects from anywhere.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), rcv.Middleware())
	engine.POST(cfg.RegisterPath, s.handleRegister)
	engine.POST(cfg.LoginPath, s.handleLogin)
	engine.GET(cfg.WSPath, s.handleWS)
	s.engine = engine

	return s
}

func (s *Server) WithLogger(logger Logger) *Server {
	s.logger = logger
	return s
}

// WithPublisher publishes an Event for every handled WebSocket message.
func (s *Server) WithPublisher(p Publisher) *Server {
	s.publisher = p
	return s
}

// WithMetrics registers the open-connection gauge and the per-type message
// duration summary on c. Call it once per collector.
func (s *Server) WithMetrics(c metrics.MetricsCollector) *Server {
	s.metrics = newServerMetrics(c)
	return s
}

// Handler returns the gin engine, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Users returns the server's user store.
func (s *Server) Users() *Users {
	return s.users
}

// Start listens on Config.Addr and serves in the background. Listen errors
// are returned; serve errors are logged.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.engine}

	s.mu.Lock()
	s.srv, s.listener = srv, ln
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Demo server listening", nil, map[string]interface{}{"address": ln.Addr().String()})
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && s.logger != nil {
			s.logger.Error("Demo server stopped", err)
		}
	}()
	return nil
}

// Addr is the bound address once Start has returned, or "".
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and waits for requests to finish.
// Hijacked WebSocket connections are not tracked by http.Server; they end
// when the peer goes away.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
