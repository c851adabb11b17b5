package scope

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/tracectx"
	"github.com/aalemi-dev/tracewire/tracer"
)

// Scope is one logical operation's trace context and span. End it exactly
// once; further calls are ignored.
type Scope struct {
	m      *Manager
	name   string
	tc     tracectx.TraceContext
	traced bool
	span   tracer.Span
	start  time.Time

	once  sync.Once
	ended atomic.Bool
}

// Name returns the scope's operation name.
func (s *Scope) Name() string { return s.name }

// TraceContext returns the scope's identity. The boolean is false for an
// untraced scope.
func (s *Scope) TraceContext() (tracectx.TraceContext, bool) {
	return s.tc, s.traced
}

// Ended reports whether End has been called.
func (s *Scope) Ended() bool {
	return s.ended.Load()
}

// SetAttributes annotates the scope's span.
func (s *Scope) SetAttributes(attrs map[string]interface{}) {
	if s.span != nil {
		s.span.SetAttributes(attrs)
	}
}

// End ends the span. A non-nil err marks it failed.
func (s *Scope) End(err error) {
	s.once.Do(func() {
		s.ended.Store(true)
		if s.span != nil {
			s.span.RecordError(err)
			s.span.End()
		}
		s.m.observe(s, err)
	})
}

// StartRoot starts a new trace. If identifiers cannot be minted the scope is
// untraced: the returned context has no active trace context and End is a
// no-op apart from observation.
func (m *Manager) StartRoot(ctx context.Context, name string, sampled bool) (context.Context, *Scope) {
	tc, err := tracectx.NewRoot(m.ids, sampled)
	if err != nil {
		return m.untraced(ctx, name, err)
	}

	ctx = tracectx.NewContext(ctx, tc)
	s := &Scope{m: m, name: name, tc: tc, traced: true, start: time.Now()}
	if m.tracer != nil {
		ctx, s.span = m.tracer.StartRootSpan(ctx, name)
	}
	return ctx, s
}

// StartChild starts a scope under the active trace context of ctx, or a root
// with a freshly drawn sampled flag when none is active.
func (m *Manager) StartChild(ctx context.Context, name string) (context.Context, *Scope) {
	parent, ok := tracectx.FromContext(ctx)
	if !ok {
		return m.StartRoot(ctx, name, m.Sample())
	}

	tc, err := tracectx.DeriveChild(m.ids, parent)
	if err != nil {
		return m.untraced(ctx, name, err)
	}

	ctx = tracectx.NewContext(ctx, tc)
	s := &Scope{m: m, name: name, tc: tc, traced: true, start: time.Now()}
	if m.tracer != nil {
		ctx, s.span = m.tracer.StartSpan(ctx, name)
	}
	return ctx, s
}

// RunInNewScope runs op with a fresh root as its current context and ends the
// scope on every exit path. A panic in op ends the scope as failed and is
// re-raised.
func (m *Manager) RunInNewScope(ctx context.Context, name string, sampled bool, op func(ctx context.Context) error) error {
	ctx, s := m.StartRoot(ctx, name, sampled)
	return s.run(ctx, op)
}

// RunInChildScope runs op under a child of the current context of ctx, or a
// new root if there is none.
func (m *Manager) RunInChildScope(ctx context.Context, name string, op func(ctx context.Context) error) error {
	ctx, s := m.StartChild(ctx, name)
	return s.run(ctx, op)
}

func (s *Scope) run(ctx context.Context, op func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.End(fmt.Errorf("panic: %v", r))
			panic(r)
		}
		s.End(err)
	}()
	return op(ctx)
}

func (m *Manager) untraced(ctx context.Context, name string, cause error) (context.Context, *Scope) {
	if m.logger != nil {
		m.logger.WarnWithContext(ctx, "trace context unavailable, continuing untraced", cause, map[string]interface{}{
			"scope": name,
		})
	}
	ctx = tracectx.NewContext(ctx, tracectx.TraceContext{})
	ctx = trace.ContextWithSpanContext(ctx, trace.SpanContext{})
	return ctx, &Scope{m: m, name: name, start: time.Now()}
}

func (m *Manager) observe(s *Scope, err error) {
	if m.observer == nil {
		return
	}
	var traceID string
	if s.traced {
		traceID = s.tc.TraceID.String()
	}
	m.observer.ObserveOperation(observability.OperationContext{
		Component: observability.ComponentScope,
		Operation: "end",
		Resource:  s.name,
		TraceID:   traceID,
		Duration:  time.Since(s.start),
		Error:     err,
		Metadata: map[string]interface{}{
			"traced":  s.traced,
			"sampled": s.tc.Sampled,
		},
	})
}
