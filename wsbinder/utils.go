package wsbinder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/scope"
	"github.com/aalemi-dev/tracewire/tracectx"
)

const redacted = "REDACTED"

// Connect dials the endpoint. ctx bounds the dial only; the connection
// lives until Close or a read error. It returns once the connection is Open
// or the attempt has failed, in which case the error is a *DialError and
// the state is Closed.
func (c *WSClient) Connect(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.state == Connecting || c.state == Open {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}

	dialCtx, cancel := context.WithCancel(ctx)
	dialCtx, sc := c.scopes.StartRoot(dialCtx, "ws connect", c.scopes.Sample())
	sc.SetAttributes(map[string]interface{}{"op": "ws.connect"})
	tc, _ := sc.TraceContext()

	target, shown := c.handshakeURL(tc, c.scopes.State(dialCtx), token)
	sc.SetAttributes(map[string]interface{}{"ws.url": shown})

	c.attempt++
	attempt := c.attempt
	c.cancelDial = cancel
	c.closing = false
	c.lastURL = shown
	from := c.transitionLocked(Connecting)
	handlers := c.handlers
	c.mu.Unlock()

	c.emitTransition(handlers, from, Connecting)

	start := time.Now()
	conn, resp, err := c.dial(dialCtx, target)
	defer cancel()

	c.mu.Lock()
	// A Close followed by a new Connect leaves the state Connecting again,
	// so the attempt number decides whether this dial still owns it.
	current := c.attempt == attempt
	aborted := !current || c.state != Connecting
	if err == nil && aborted {
		_ = conn.Close()
		err = ErrClosedDuringConnect
	} else if err != nil && aborted {
		err = fmt.Errorf("%w: %w", ErrClosedDuringConnect, err)
	}

	if err != nil {
		dialErr := &DialError{URL: shown, Trace: tc, Err: err}
		if resp != nil {
			dialErr.StatusCode = resp.StatusCode
		}
		from := c.state
		if !aborted {
			c.transitionLocked(Closed)
		}
		if current {
			c.cancelDial = nil
		}
		c.mu.Unlock()

		sc.End(dialErr)
		c.observeOperation("connect", "", tc, time.Since(start), dialErr, 0)
		if c.logger != nil {
			c.logger.WarnWithContext(dialCtx, "websocket connect failed", err, map[string]interface{}{
				"url":    shown,
				"status": dialErr.StatusCode,
			})
		}
		if !aborted {
			c.emitTransition(handlers, from, Closed)
		}
		if handlers.OnError != nil {
			handlers.OnError(dialErr)
		}
		if handlers.OnClose != nil {
			handlers.OnClose(websocket.CloseAbnormalClosure, "")
		}
		return dialErr
	}

	done := make(chan struct{})
	c.conn = conn
	c.done = done
	c.cancelDial = nil
	c.transitionLocked(Open)
	c.mu.Unlock()

	sc.End(nil)
	c.observeOperation("connect", "", tc, time.Since(start), nil, 0)
	c.emitTransition(handlers, Connecting, Open)
	if handlers.OnOpen != nil {
		handlers.OnOpen()
	}

	go c.readLoop(conn, done, handlers)
	return nil
}

// dial runs the handshake so that cancelling ctx also interrupts a handshake
// that is waiting for the server's response. The deadline hook is bound to
// ctx itself: the context gorilla hands to NetDialContext is cancelled as
// soon as DialContext returns, even on success.
func (c *WSClient) dial(ctx context.Context, target string) (*websocket.Conn, *http.Response, error) {
	var stop func() bool
	d := c.dialer
	d.NetDialContext = func(dialCtx context.Context, network, addr string) (net.Conn, error) {
		nc, err := c.netDialer.DialContext(dialCtx, network, addr)
		if err != nil {
			return nil, err
		}
		stop = context.AfterFunc(ctx, func() {
			_ = nc.SetDeadline(time.Unix(1, 0))
		})
		return nc, nil
	}

	conn, resp, err := d.DialContext(ctx, target, nil)
	if stop != nil && !stop() && err == nil {
		// ctx was cancelled as the handshake finished; the poisoned
		// deadline is already on the socket.
		_ = conn.Close()
		conn, err = nil, ctx.Err()
	}
	if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		err = fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	return conn, resp, err
}

// Send writes one message in its own new trace and returns that trace's
// context. An untraced send (no entropy) returns the zero TraceContext and
// an envelope without _trace.
func (c *WSClient) Send(ctx context.Context, msgType string, payload interface{}) (tracectx.TraceContext, error) {
	c.mu.Lock()
	if c.state != Open {
		c.mu.Unlock()
		return tracectx.TraceContext{}, ErrNotOpen
	}
	conn := c.conn
	c.mu.Unlock()

	var sent tracectx.TraceContext
	start := time.Now()
	err := c.scopes.RunInNewScope(ctx, "ws.send."+msgType, c.scopes.Sample(), func(ctx context.Context) error {
		sent, _ = scope.Current(ctx)
		env := carrier.NewEnvelope(msgType, payload, sent, c.scopes.State(ctx))

		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
			return err
		}
		if err := conn.WriteJSON(env); err != nil {
			return fmt.Errorf("ws send %s: %w", msgType, err)
		}
		return nil
	})

	c.observeOperation("send", msgType, sent, time.Since(start), err, 0)
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorWithContext(ctx, "websocket send failed", err, map[string]interface{}{"type": msgType})
		}
		return sent, err
	}
	return sent, nil
}

// Close ends the connection. During Connecting it aborts the dial and
// returns at once; Connect then fails with ErrClosedDuringConnect. When Open
// it sends a normal close frame and waits up to CloseGrace for the server to
// answer before dropping the connection. Close on an idle or closed client
// is a no-op.
func (c *WSClient) Close() error {
	c.mu.Lock()
	switch c.state {
	case Connecting:
		cancel := c.cancelDial
		from := c.transitionLocked(Closed)
		handlers := c.handlers
		c.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		c.emitTransition(handlers, from, Closed)
		return nil

	case Open:
		conn, done := c.conn, c.done
		c.closing = true
		c.mu.Unlock()

		deadline := time.Now().Add(c.cfg.CloseGrace)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.writeMu.Lock()
		err := conn.WriteControl(websocket.CloseMessage, msg, deadline)
		c.writeMu.Unlock()
		if err != nil {
			_ = conn.Close()
		} else {
			_ = conn.SetReadDeadline(deadline)
		}
		<-done
		return nil

	default:
		c.mu.Unlock()
		return nil
	}
}

func (c *WSClient) readLoop(conn *websocket.Conn, done chan struct{}, handlers Handlers) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.closed(conn, err, handlers)
			return
		}
		c.observeOperation("receive", "", tracectx.TraceContext{}, 0, nil, int64(len(data)))
		if handlers.OnMessage != nil {
			handlers.OnMessage(data)
		}
	}
}

func (c *WSClient) closed(conn *websocket.Conn, err error, handlers Handlers) {
	_ = conn.Close()

	code, reason := websocket.CloseAbnormalClosure, ""
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		code, reason = closeErr.Code, closeErr.Text
	}

	c.mu.Lock()
	requested := c.closing
	var from State
	changed := c.conn == conn && c.state == Open
	if changed {
		c.conn = nil
		c.closing = false
		from = c.transitionLocked(Closed)
	}
	c.mu.Unlock()

	var reported error
	if closeErr == nil && !requested {
		reported = err
	}
	c.observeOperation("close", "", tracectx.TraceContext{}, 0, reported, 0)
	if changed {
		c.emitTransition(handlers, from, Closed)
	}
	if reported != nil {
		if c.logger != nil {
			c.logger.WarnWithContext(context.Background(), "websocket connection lost", err, nil)
		}
		if handlers.OnError != nil {
			handlers.OnError(err)
		}
	}
	if handlers.OnClose != nil {
		handlers.OnClose(code, reason)
	}
}

// transitionLocked moves to next and returns the previous state. c.mu must be
// held. Illegal moves are logged and still applied, since the state must
// reflect the connection.
func (c *WSClient) transitionLocked(next State) State {
	prev := c.state
	if !canTransition(prev, next) && c.logger != nil {
		c.logger.DebugWithContext(context.Background(), "unexpected websocket state transition", nil, map[string]interface{}{
			"from": prev.String(),
			"to":   next.String(),
		})
	}
	c.state = next
	return prev
}

func (c *WSClient) emitTransition(handlers Handlers, from, to State) {
	if handlers.OnStateChange != nil {
		handlers.OnStateChange(from, to)
	}
}

// handshakeURL returns the URL to dial and the same URL with the token
// redacted for logs.
func (c *WSClient) handshakeURL(tc tracectx.TraceContext, state, token string) (string, string) {
	u := *c.endpoint
	q := u.Query()
	trace := ""
	if tc.IsValid() {
		trace = carrier.Encode(tc)
	}
	q.Set(carrier.QueryTrace, trace)
	q.Set(carrier.QueryBaggage, state)
	q.Set(carrier.QueryToken, token)
	u.RawQuery = q.Encode()
	target := u.String()

	if token != "" {
		q.Set(carrier.QueryToken, redacted)
		u.RawQuery = q.Encode()
	}
	return target, u.String()
}
