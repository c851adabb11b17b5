package demoserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/receiver"
)

// Reply is the body of every message the server sends.
type Reply struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

// Event is published for every handled message.
type Event struct {
	Type   string    `json:"type"`
	Reply  string    `json:"reply"`
	User   string    `json:"user"`
	Failed bool      `json:"failed"`
	At     time.Time `json:"at"`
}

// conn is one upgraded connection. Replies are written from the handler
// goroutines, so writes are serialized.
type conn struct {
	ws      *websocket.Conn
	user    string
	writeMu sync.Mutex
	timeout time.Duration
}

func (c *conn) write(r Reply) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(r)
}

func (s *Server) handleWS(c *gin.Context) {
	user, ok := s.users.Lookup(c.Query("token"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		_ = c.Error(err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(s.cfg.ReadLimit)

	if s.metrics != nil {
		s.metrics.connections.Inc()
		defer s.metrics.connections.Dec()
	}

	// Messages do not inherit the connect span; each one continues its own
	// carrier.
	ctx, cancel := context.WithCancel(context.Background())

	if s.logger != nil {
		s.logger.InfoWithContext(c.Request.Context(), "WebSocket connected", nil, map[string]interface{}{"user": user})
	}

	cn := &conn{ws: ws, user: user, timeout: s.cfg.WriteTimeout}
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if s.logger != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.WarnWithContext(c.Request.Context(), "WebSocket read failed", err, map[string]interface{}{"user": user})
			}
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleMessage(ctx, cn, data)
		}()
	}
}

// handleMessage runs one envelope in its own scope and writes the reply.
func (s *Server) handleMessage(ctx context.Context, cn *conn, data []byte) {
	var env carrier.Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		_ = cn.write(Reply{Type: "error", Message: "invalid message"})
		return
	}

	if s.metrics != nil {
		start := time.Now()
		defer func() {
			s.metrics.duration.WithLabelValues(messageLabel(env.Type)).Observe(time.Since(start).Seconds())
		}()
	}

	var reply Reply
	err := s.receiver.Run(ctx, "ws.message."+env.Type, receiver.FromEnvelope(env), func(ctx context.Context) error {
		var opErr error
		reply, opErr = s.dispatch(ctx, env)
		if tc, ok := s.scopes.Current(ctx); ok {
			reply.TraceID = tc.TraceID.String()
		}
		s.publish(ctx, cn.user, env.Type, reply, opErr != nil)
		return opErr
	})
	if err != nil && s.logger != nil {
		s.logger.WarnWithContext(ctx, "Message handler failed", err, map[string]interface{}{"type": env.Type})
	}

	if werr := cn.write(reply); werr != nil && s.logger != nil {
		s.logger.WarnWithContext(ctx, "WebSocket write failed", werr, map[string]interface{}{"type": env.Type})
	}
}

func (s *Server) dispatch(ctx context.Context, env carrier.Envelope) (Reply, error) {
	switch env.Type {
	case "ping":
		return Reply{Type: "pong"}, nil
	case "work":
		d := s.workDuration(env.Payload)
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return Reply{Type: "work.done"}, nil
		case <-ctx.Done():
			return Reply{Type: "error", Message: "work cancelled"}, ctx.Err()
		}
	case "boom":
		return Reply{Type: "error", Message: ErrBoom.Error()}, ErrBoom
	default:
		return Reply{Type: "error", Message: "unknown message type"}, nil
	}
}

// workDuration reads payload.ms, falling back to DefaultWork and capped at
// Config.MaxWork.
func (s *Server) workDuration(payload interface{}) time.Duration {
	d := DefaultWork
	if m, ok := payload.(map[string]interface{}); ok {
		if ms, ok := m["ms"].(float64); ok && ms >= 0 {
			// Clamp before converting; large values overflow Duration.
			if ms >= float64(s.cfg.MaxWork/time.Millisecond) {
				return s.cfg.MaxWork
			}
			d = time.Duration(ms * float64(time.Millisecond))
		}
	}
	if d > s.cfg.MaxWork {
		d = s.cfg.MaxWork
	}
	return d
}

func (s *Server) publish(ctx context.Context, user, msgType string, reply Reply, failed bool) {
	if s.publisher == nil {
		return
	}
	ev := Event{Type: msgType, Reply: reply.Type, User: user, Failed: failed, At: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, user, ev); err != nil && s.logger != nil {
		s.logger.WarnWithContext(ctx, "Failed to publish event", err, map[string]interface{}{"type": msgType})
	}
}
