package demoserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/tracewire/auth"
	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/httpbinder"
	"github.com/aalemi-dev/tracewire/kafka"
	"github.com/aalemi-dev/tracewire/metrics"
	"github.com/aalemi-dev/tracewire/receiver"
	"github.com/aalemi-dev/tracewire/scope"
	"github.com/aalemi-dev/tracewire/tracectx"
	"github.com/aalemi-dev/tracewire/tracer"
	"github.com/aalemi-dev/tracewire/wsbinder"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newScopes(t *testing.T, service string) (*scope.Manager, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tr, err := tracer.NewClient(tracer.Config{ServiceName: service}, tracer.WithSpanProcessor(rec))
	require.NoError(t, err)
	return scope.NewManager(scope.Config{}, tr), rec
}

type backend struct {
	server *Server
	http   *httptest.Server
	spans  *tracetest.SpanRecorder
}

func newBackend(t *testing.T, cfg Config) *backend {
	t.Helper()
	scopes, spans := newScopes(t, "demoserver-test")
	s := New(cfg, receiver.New(scopes), scopes)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &backend{server: s, http: ts, spans: spans}
}

func (b *backend) wsURL() string {
	return "ws" + strings.TrimPrefix(b.http.URL, "http") + DefaultWSPath
}

func (b *backend) post(t *testing.T, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(b.http.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (b *backend) token(t *testing.T) string {
	t.Helper()
	token, err := b.server.Users().Register("Ada", "ada@example.com", "secret", nil)
	require.NoError(t, err)
	return token
}

func (b *backend) span(t *testing.T, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	var found sdktrace.ReadOnlySpan
	require.Eventually(t, func() bool {
		for _, s := range b.spans.Ended() {
			if s.Name() == name {
				found = s
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "span %q never ended", name)
	return found
}

func TestAuthEndpoints(t *testing.T) {
	t.Parallel()
	b := newBackend(t, Config{})

	status, body := b.post(t, DefaultRegisterPath, map[string]interface{}{
		"name": "Ada", "email": "Ada@Example.com", "password": "secret", "age": 36,
	})
	require.Equal(t, http.StatusCreated, status)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	registered, _ := data["accessToken"].(string)
	assert.NotEmpty(t, registered)

	status, _ = b.post(t, DefaultRegisterPath, map[string]interface{}{
		"name": "Ada", "email": "ada@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = b.post(t, DefaultLoginPath, map[string]interface{}{"email": "ada@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, status)
	loggedIn, _ := body["token"].(string)
	assert.NotEmpty(t, loggedIn)
	assert.NotEqual(t, registered, loggedIn)

	email, ok := b.server.Users().Lookup(loggedIn)
	assert.True(t, ok)
	assert.Equal(t, "ada@example.com", email)

	status, _ = b.post(t, DefaultLoginPath, map[string]interface{}{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = b.post(t, DefaultLoginPath, map[string]interface{}{"email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuthService_AgainstBackend(t *testing.T) {
	t.Parallel()
	b := newBackend(t, Config{})
	clientScopes, clientSpans := newScopes(t, "tracedemo-test")

	requester, err := httpbinder.NewClient(httpbinder.Config{BaseURL: b.http.URL}, clientScopes)
	require.NoError(t, err)
	store := &auth.MemoryStore{}
	svc := auth.NewService(auth.Config{}, requester, clientScopes, store)

	age := 36
	_, err = svc.Register(context.Background(), auth.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret", Age: &age,
	})
	require.NoError(t, err)
	assert.True(t, svc.LoggedIn())

	token, err := svc.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, token, svc.Token())
	_, ok := b.server.Users().Lookup(token)
	assert.True(t, ok)

	serverSpan := b.span(t, "POST "+DefaultLoginPath)
	var clientSpan sdktrace.ReadOnlySpan
	for _, s := range clientSpans.Ended() {
		if s.Name() == "http POST "+DefaultLoginPath {
			clientSpan = s
		}
	}
	require.NotNil(t, clientSpan)
	assert.Equal(t, clientSpan.SpanContext().TraceID(), serverSpan.SpanContext().TraceID())
	assert.Equal(t, clientSpan.SpanContext().SpanID(), serverSpan.Parent().SpanID())

	_, err = svc.Login(context.Background(), "ada@example.com", "nope")
	require.Error(t, err)
	assert.Equal(t, "HTTP 401 Unauthorized", err.Error())
}

func TestWS_RejectsUnknownToken(t *testing.T) {
	t.Parallel()
	b := newBackend(t, Config{})

	_, resp, err := websocket.DefaultDialer.Dial(b.wsURL()+"?token=nope", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

type inbox struct {
	mu   sync.Mutex
	msgs []Reply
}

func (in *inbox) add(data []byte) {
	var r Reply
	if err := json.Unmarshal(data, &r); err != nil {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.msgs = append(in.msgs, r)
}

func (in *inbox) byType() map[string]Reply {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make(map[string]Reply, len(in.msgs))
	for _, r := range in.msgs {
		key := r.Type
		if r.Type == "error" {
			key = "error:" + r.Message
		}
		out[key] = r
	}
	return out
}

func (in *inbox) len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.msgs)
}

func TestWS_MessagesContinueTheirOwnCarrier(t *testing.T) {
	t.Parallel()
	b := newBackend(t, Config{})
	token := b.token(t)
	clientScopes, clientSpans := newScopes(t, "tracedemo-test")

	client, err := wsbinder.NewClient(wsbinder.Config{URL: b.wsURL()}, clientScopes)
	require.NoError(t, err)
	in := &inbox{}
	client.WithHandlers(wsbinder.Handlers{OnMessage: in.add})

	require.NoError(t, client.Connect(context.Background(), token))

	sent := map[string]tracectx.TraceContext{}
	for _, m := range []struct {
		typ     string
		payload interface{}
	}{
		{"ping", nil},
		{"work", map[string]interface{}{"ms": 10}},
		{"boom", nil},
		{"nope", nil},
	} {
		tc, err := client.Send(context.Background(), m.typ, m.payload)
		require.NoError(t, err)
		sent[m.typ] = tc
	}

	require.Eventually(t, func() bool { return in.len() == 4 }, 2*time.Second, 10*time.Millisecond)
	replies := in.byType()
	assert.Equal(t, sent["ping"].TraceID.String(), replies["pong"].TraceID)
	assert.Equal(t, sent["work"].TraceID.String(), replies["work.done"].TraceID)
	assert.Equal(t, sent["boom"].TraceID.String(), replies["error:"+ErrBoom.Error()].TraceID)
	assert.Contains(t, replies, "error:unknown message type")

	for typ, tc := range sent {
		s := b.span(t, "ws.message."+typ)
		assert.Equal(t, tc.TraceID, s.SpanContext().TraceID(), typ)
		assert.Equal(t, tc.SpanID, s.Parent().SpanID(), typ)
		assert.True(t, s.Parent().IsRemote(), typ)
	}
	assert.Equal(t, codes.Error, b.span(t, "ws.message.boom").Status().Code)
	assert.Equal(t, codes.Unset, b.span(t, "ws.message.ping").Status().Code)

	require.NoError(t, client.Close())

	connect := b.span(t, "GET "+DefaultWSPath)
	var dial sdktrace.ReadOnlySpan
	for _, s := range clientSpans.Ended() {
		if s.Name() == "ws connect" {
			dial = s
		}
	}
	require.NotNil(t, dial)
	assert.Equal(t, dial.SpanContext().TraceID(), connect.SpanContext().TraceID())
	for typ, tc := range sent {
		assert.NotEqual(t, dial.SpanContext().TraceID(), tc.TraceID, typ)
	}
}

func dialRaw(t *testing.T, b *backend) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(b.wsURL()+"?token="+b.token(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	return conn
}

func TestWS_MalformedCarrierStartsRoot(t *testing.T) {
	t.Parallel()
	b := newBackend(t, Config{})
	conn := dialRaw(t, b)

	require.NoError(t, conn.WriteJSON(carrier.Envelope{
		Type:  "ping",
		Trace: &carrier.EnvelopeTrace{SentryTrace: "not-a-carrier"},
	}))

	var r Reply
	require.NoError(t, conn.ReadJSON(&r))
	assert.Equal(t, "pong", r.Type)
	assert.NotEmpty(t, r.TraceID)

	s := b.span(t, "ws.message.ping")
	assert.False(t, s.Parent().IsValid())
	assert.Equal(t, r.TraceID, s.SpanContext().TraceID().String())
}

func TestWS_InvalidMessage(t *testing.T) {
	t.Parallel()
	b := newBackend(t, Config{})
	conn := dialRaw(t, b)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))

	var r Reply
	require.NoError(t, conn.ReadJSON(&r))
	assert.Equal(t, Reply{Type: "error", Message: "invalid message"}, r)
}

func TestWorkDuration(t *testing.T) {
	t.Parallel()
	s := &Server{cfg: Config{MaxWork: time.Second}.withDefaults()}

	tests := []struct {
		name    string
		payload interface{}
		want    time.Duration
	}{
		{"no payload", nil, DefaultWork},
		{"explicit", map[string]interface{}{"ms": float64(250)}, 250 * time.Millisecond},
		{"zero", map[string]interface{}{"ms": float64(0)}, 0},
		{"capped", map[string]interface{}{"ms": float64(60000)}, time.Second},
		{"beyond duration range", map[string]interface{}{"ms": 1e300}, time.Second},
		{"just past int64 nanoseconds", map[string]interface{}{"ms": 9.3e12}, time.Second},
		{"negative", map[string]interface{}{"ms": float64(-5)}, DefaultWork},
		{"wrong type", map[string]interface{}{"ms": "fast"}, DefaultWork},
		{"not an object", "work", DefaultWork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.workDuration(tt.payload))
		})
	}
}

type published struct {
	trace tracectx.TraceContext
	key   string
	event Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (f *fakePublisher) Publish(ctx context.Context, key string, data interface{}, _ ...map[string]interface{}) error {
	tc, _ := scope.Current(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{trace: tc, key: key, event: data.(Event)})
	return nil
}

func (f *fakePublisher) snapshot() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.events...)
}

func TestWS_PublishesEventInHandlerScope(t *testing.T) {
	t.Parallel()
	b := newBackend(t, Config{})
	pub := &fakePublisher{}
	b.server.WithPublisher(pub)
	conn := dialRaw(t, b)

	require.NoError(t, conn.WriteJSON(carrier.Envelope{Type: "boom"}))
	var r Reply
	require.NoError(t, conn.ReadJSON(&r))

	events := pub.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "ada@example.com", events[0].key)
	assert.Equal(t, "boom", events[0].event.Type)
	assert.Equal(t, "error", events[0].event.Reply)
	assert.True(t, events[0].event.Failed)
	assert.Equal(t, r.TraceID, events[0].trace.TraceID.String())

	s := b.span(t, "ws.message.boom")
	assert.Equal(t, events[0].trace.SpanID, s.SpanContext().SpanID())
}

type fakeMessage struct {
	body      []byte
	headers   map[string]string
	committed bool
}

func (m *fakeMessage) CommitMsg() error { m.committed = true; return nil }
func (m *fakeMessage) Body() []byte     { return m.body }
func (m *fakeMessage) BodyAs(target interface{}) error {
	return json.Unmarshal(m.body, target)
}
func (m *fakeMessage) Key() string                    { return "" }
func (m *fakeMessage) Header() map[string]interface{} { return nil }
func (m *fakeMessage) Partition() int                 { return 0 }
func (m *fakeMessage) Offset() int64                  { return 0 }
func (m *fakeMessage) Trace() receiver.Extracted      { return receiver.FromMap(m.headers) }
func (m *fakeMessage) Context(ctx context.Context) context.Context {
	return ctx
}

type fakeConsumer struct {
	kafka.Client
	msgs []kafka.Message
}

func (f *fakeConsumer) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan kafka.Message {
	out := make(chan kafka.Message, len(f.msgs))
	for _, m := range f.msgs {
		out <- m
	}
	close(out)
	return out
}

func TestEventLog_ContinuesPublisherTrace(t *testing.T) {
	t.Parallel()
	scopes, spans := newScopes(t, "eventlog-test")

	parent, err := carrier.Decode("4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-1")
	require.NoError(t, err)
	traced := &fakeMessage{
		body:    []byte(`{"type":"ping","reply":"pong","user":"ada@example.com"}`),
		headers: map[string]string{carrier.HeaderTraceParent: carrier.Encode(parent)},
	}
	broken := &fakeMessage{body: []byte(`{`)}

	log := NewEventLog(&fakeConsumer{msgs: []kafka.Message{traced, broken}}, receiver.New(scopes), "events")
	log.Start()
	log.Stop()

	assert.True(t, traced.committed)
	assert.False(t, broken.committed)

	ended := spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "kafka.consume.events", ended[0].Name())
	assert.Equal(t, parent.TraceID, ended[0].SpanContext().TraceID())
	assert.Equal(t, parent.SpanID, ended[0].Parent().SpanID())
	assert.False(t, ended[1].Parent().IsValid())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
}

func TestFXModule(t *testing.T) {
	t.Parallel()
	scopes, _ := newScopes(t, "demoserver-fx")

	var s *Server
	app := fxtest.New(t,
		fx.Supply(Config{Addr: "127.0.0.1:0"}, scopes, receiver.New(scopes)),
		FXModule,
		fx.Populate(&s),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotEmpty(t, s.Addr())
	resp, err := http.Post("http://"+s.Addr()+DefaultLoginPath, "application/json", strings.NewReader(`{"email":"x@example.com","password":"y"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// gathered returns the gauge value or the summary sample count of the
// metric named name whose labels include want.
func gathered(t *testing.T, g prometheus.Gatherer, name string, want map[string]string) float64 {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metric
				}
			}
			if m.GetSummary() != nil {
				return float64(m.GetSummary().GetSampleCount())
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestWS_ConnectionAndMessageMetrics(t *testing.T) {
	t.Parallel()
	b := newBackend(t, Config{})
	m := metrics.NewMetrics(metrics.Config{
		ServiceName:               "demoserver-test",
		SystemMetricsAddress:      metrics.Ptr(""),
		ApplicationMetricsAddress: metrics.Ptr(""),
	})
	b.server.WithMetrics(m)

	conn := dialRaw(t, b)
	require.NoError(t, conn.WriteJSON(carrier.Envelope{Type: "ping"}))
	require.NoError(t, conn.WriteJSON(carrier.Envelope{Type: "whatever"}))
	var r Reply
	require.NoError(t, conn.ReadJSON(&r))
	require.NoError(t, conn.ReadJSON(&r))

	assert.Equal(t, 1.0, gathered(t, m.ApplicationRegistry, ConnectionsMetricName, nil))
	require.Eventually(t, func() bool {
		return gathered(t, m.ApplicationRegistry, MessageDurationMetricName, map[string]string{"type": "ping"}) == 1 &&
			gathered(t, m.ApplicationRegistry, MessageDurationMetricName, map[string]string{"type": "unknown"}) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return gathered(t, m.ApplicationRegistry, ConnectionsMetricName, nil) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
