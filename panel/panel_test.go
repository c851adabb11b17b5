package panel

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/ids"
	"github.com/aalemi-dev/tracewire/scope"
	"github.com/aalemi-dev/tracewire/tracectx"
	"github.com/aalemi-dev/tracewire/wsbinder"
)

// syncBuffer is a bytes.Buffer safe for the read goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSuffix(b.buf.String(), "\n"), "\n")
}

type fakeClient struct {
	connectErr error
	sendErr    error
	sendTrace  tracectx.TraceContext
	sent       []string
	payloads   []interface{}
	closed     int
	token      string
}

func (f *fakeClient) Connect(_ context.Context, token string) error {
	f.token = token
	return f.connectErr
}

func (f *fakeClient) Send(_ context.Context, msgType string, payload interface{}) (tracectx.TraceContext, error) {
	if f.sendErr != nil {
		return tracectx.TraceContext{}, f.sendErr
	}
	f.sent = append(f.sent, msgType)
	f.payloads = append(f.payloads, payload)
	return f.sendTrace, nil
}

func (f *fakeClient) Close() error {
	f.closed++
	return nil
}

func (f *fakeClient) Endpoint() string { return "ws://example/ws/demo?token=REDACTED" }

type fakeSession struct {
	token     string
	loggedOut bool
}

func (s *fakeSession) Token() string { return s.token }

func (s *fakeSession) Logout(context.Context) {
	s.loggedOut = true
	s.token = ""
}

func TestExecute(t *testing.T) {
	t.Parallel()

	tc, err := tracectx.NewRoot(ids.NewGenerator(), true)
	require.NoError(t, err)

	tests := []struct {
		name    string
		line    string
		client  *fakeClient
		wantErr error
		want    []string
		sent    []string
	}{
		{
			name:   "connect passes the stored token",
			line:   "connect",
			client: &fakeClient{},
			want:   []string{""},
		},
		{
			name:   "connect while connected",
			line:   "connect",
			client: &fakeClient{connectErr: wsbinder.ErrAlreadyConnected},
			want:   []string{"[info] already connected/connecting"},
		},
		{
			name:   "ping",
			line:   "ping",
			client: &fakeClient{sendTrace: tc},
			want:   []string{"[sent] ping (trace=" + carrier.Encode(tc) + ")"},
			sent:   []string{"ping"},
		},
		{
			name:   "untraced send has no trace suffix",
			line:   "boom",
			client: &fakeClient{},
			want:   []string{"[sent] boom"},
			sent:   []string{"boom"},
		},
		{
			name:   "send while closed",
			line:   "ping",
			client: &fakeClient{sendErr: wsbinder.ErrNotOpen},
			want:   []string{"[warn] ws not open"},
		},
		{
			name:    "send failure is returned",
			line:    "ping",
			client:  &fakeClient{sendErr: errors.New("broken pipe")},
			wantErr: errors.New("broken pipe"),
			want:    []string{""},
		},
		{
			name:    "quit",
			line:    "quit",
			client:  &fakeClient{},
			wantErr: ErrQuit,
			want:    []string{""},
		},
		{
			name:   "unknown command",
			line:   "dance",
			client: &fakeClient{},
			want:   []string{"[warn] unknown command: dance"},
		},
		{
			name:    "invalid work duration",
			line:    "work soon",
			client:  &fakeClient{},
			wantErr: errors.New(`work: invalid duration "soon"`),
			want:    []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &syncBuffer{}
			p := New(out, tt.client, &fakeSession{token: "tok"})

			err := p.Execute(context.Background(), tt.line)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, out.lines())
			assert.Equal(t, tt.sent, tt.client.sent)
		})
	}
}

func TestExecute_WorkPayload(t *testing.T) {
	t.Parallel()
	client := &fakeClient{}
	p := New(&syncBuffer{}, client, &fakeSession{})

	require.NoError(t, p.Execute(context.Background(), "work"))
	require.NoError(t, p.Execute(context.Background(), "work 25"))

	assert.Equal(t, []interface{}{
		map[string]int{"ms": DefaultWorkMillis},
		map[string]int{"ms": 25},
	}, client.payloads)
}

func TestExecute_LogoutClosesAndClearsToken(t *testing.T) {
	t.Parallel()
	client := &fakeClient{}
	session := &fakeSession{token: "tok"}
	out := &syncBuffer{}
	p := New(out, client, session)

	err := p.Execute(context.Background(), "logout")

	assert.ErrorIs(t, err, ErrLoggedOut)
	assert.Equal(t, 1, client.closed)
	assert.True(t, session.loggedOut)
	assert.Equal(t, []string{"[info] logged out"}, out.lines())
}

func TestRun_StopsAtQuit(t *testing.T) {
	t.Parallel()
	client := &fakeClient{}
	out := &syncBuffer{}
	p := New(out, client, &fakeSession{token: "tok"})

	err := p.Run(context.Background(), strings.NewReader("connect\n\nquit\nping\n"))

	require.NoError(t, err)
	assert.Equal(t, "tok", client.token)
	assert.Empty(t, client.sent, "commands after quit are not run")
}

func TestHandlers_Lines(t *testing.T) {
	t.Parallel()
	out := &syncBuffer{}
	p := New(out, &fakeClient{}, &fakeSession{})
	h := p.Handlers()

	h.OnStateChange(wsbinder.Idle, wsbinder.Connecting)
	h.OnStateChange(wsbinder.Connecting, wsbinder.Open)
	h.OnOpen()
	h.OnMessage([]byte(`{"type":"pong"}`))
	h.OnError(errors.New("reset"))
	h.OnClose(1000, "")
	h.OnClose(4001, "bye")

	assert.Equal(t, []string{
		"[connect] ws://example/ws/demo?token=REDACTED",
		"[open]",
		`[message] {"type":"pong"}`,
		"[error]",
		"[close] code= 1000 reason= ",
		"[close] code= 4001 reason= bye",
	}, out.lines())
}

func newDemoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get(carrier.QueryToken) != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var env carrier.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			_ = conn.WriteJSON(map[string]string{"type": env.Type + ".ack"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitForLine(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, l := range out.lines() {
			if l == want {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "missing line %q in %v", want, out.lines())
}

func TestPanel_AgainstServer(t *testing.T) {
	t.Parallel()
	srv := newDemoServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/demo"

	client, err := wsbinder.NewClient(wsbinder.Config{URL: wsURL}, scope.NewManager(scope.Config{}, nil))
	require.NoError(t, err)
	out := &syncBuffer{}
	p := New(out, client, &fakeSession{token: "secret"})
	client.WithHandlers(p.Handlers())

	ctx := context.Background()
	require.NoError(t, p.Execute(ctx, "connect"))
	require.NoError(t, p.Execute(ctx, "connect"))
	require.NoError(t, p.Execute(ctx, "ping"))
	waitForLine(t, out, `[message] {"type":"ping.ack"}`)
	require.NoError(t, p.Execute(ctx, "disconnect"))
	waitForLine(t, out, "[close] code= 1000 reason= ")
	require.NoError(t, p.Execute(ctx, "ping"))

	lines := out.lines()
	require.GreaterOrEqual(t, len(lines), 5)
	assert.True(t, strings.HasPrefix(lines[0], "[connect] "+wsURL+"?"), lines[0])
	assert.Contains(t, lines[0], "token=REDACTED")
	assert.NotContains(t, lines[0], "secret")
	assert.Equal(t, "[open]", lines[1])
	assert.Equal(t, "[info] already connected/connecting", lines[2])
	assert.Equal(t, "[warn] ws not open", lines[len(lines)-1])

	var sentLines int
	for _, l := range lines {
		if strings.HasPrefix(l, "[sent] ping (trace=") {
			sentLines++
		}
	}
	assert.Equal(t, 1, sentLines)
}

func TestPanel_ConnectRejected(t *testing.T) {
	t.Parallel()
	srv := newDemoServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/demo"

	client, err := wsbinder.NewClient(wsbinder.Config{URL: wsURL}, scope.NewManager(scope.Config{}, nil))
	require.NoError(t, err)
	out := &syncBuffer{}
	p := New(out, client, &fakeSession{token: "wrong"})
	client.WithHandlers(p.Handlers())

	require.NoError(t, p.Execute(context.Background(), "connect"))

	lines := out.lines()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "[connect] "))
	assert.Equal(t, "[error]", lines[1])
	assert.Equal(t, "[close] code= 1006 reason= ", lines[2])
}
