package scope

import (
	"context"
	"math/rand"

	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/tracewire/ids"
	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/tracectx"
	"github.com/aalemi-dev/tracewire/tracer"
)

// Manager starts and ends scopes. It holds no per-operation state: the active
// trace context of an operation lives only on that operation's context.Context.
//
// Manager is safe for concurrent use.
type Manager struct {
	cfg      Config
	ids      tracectx.IDSource
	tracer   tracer.Tracer
	logger   Logger
	observer observability.Observer
	random   func() float64
}

// NewManager creates a manager. tr may be nil, in which case scopes carry
// trace contexts without recording spans.
func NewManager(cfg Config, tr tracer.Tracer) *Manager {
	return &Manager{
		cfg:    cfg,
		ids:    ids.Default(),
		tracer: tr,
		random: rand.Float64,
	}
}

// WithIDSource replaces the identifier source.
func (m *Manager) WithIDSource(src tracectx.IDSource) *Manager {
	m.ids = src
	return m
}

// WithLogger attaches a logger for degradation warnings.
func (m *Manager) WithLogger(logger Logger) *Manager {
	m.logger = logger
	return m
}

// WithObserver attaches an observer notified when a scope ends.
func (m *Manager) WithObserver(observer observability.Observer) *Manager {
	m.observer = observer
	return m
}

// Sample draws the sampled flag for a new root.
func (m *Manager) Sample() bool {
	rate := DefaultSampleRate
	if m.cfg.SampleRate != nil {
		rate = *m.cfg.SampleRate
	}
	switch {
	case rate >= 1:
		return true
	case rate <= 0:
		return false
	default:
		return m.random() < rate
	}
}

// Current returns the active trace context of ctx. The boolean is false when
// no scope is active, which is not an error.
func (m *Manager) Current(ctx context.Context) (tracectx.TraceContext, bool) {
	return Current(ctx)
}

// Current returns the active trace context of ctx.
func Current(ctx context.Context) (tracectx.TraceContext, bool) {
	return tracectx.FromContext(ctx)
}

// State returns the state blob for carriers sent from ctx: the inbound blob
// if one was continued, otherwise the configured default.
func (m *Manager) State(ctx context.Context) string {
	if s := tracectx.StateFromContext(ctx); s != "" {
		return s
	}
	return m.cfg.State
}

// ContinueRemote makes a decoded inbound context the parent of scopes started
// from the returned context.
func (m *Manager) ContinueRemote(ctx context.Context, tc tracectx.TraceContext, state string) context.Context {
	if !tc.IsValid() {
		return ctx
	}
	ctx = tracectx.NewContext(ctx, tc)
	ctx = trace.ContextWithRemoteSpanContext(ctx, tc.SpanContext(true))
	if state != "" {
		ctx = tracectx.WithState(ctx, state)
	}
	return ctx
}
