package receiver

import (
	"context"

	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/scope"
)

// Logger is the subset of logger.Logger used by the receiver.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Receiver opens server-side scopes from inbound carriers.
type Receiver struct {
	scopes   *scope.Manager
	logger   Logger
	observer observability.Observer
}

// New creates a receiver that starts scopes with scopes.
func New(scopes *scope.Manager) *Receiver {
	return &Receiver{scopes: scopes}
}

// WithLogger attaches a logger for malformed carriers.
func (r *Receiver) WithLogger(logger Logger) *Receiver {
	r.logger = logger
	return r
}

// WithObserver attaches an observer notified of every decode attempt.
func (r *Receiver) WithObserver(observer observability.Observer) *Receiver {
	r.observer = observer
	return r
}

// Continue returns ctx with e installed as the remote parent when e is
// valid. Otherwise ctx is returned unchanged.
func (r *Receiver) Continue(ctx context.Context, e Extracted) context.Context {
	r.report(ctx, e)
	if !e.Valid() {
		return ctx
	}
	return r.scopes.ContinueRemote(ctx, e.Trace, e.State)
}

// Start opens the handler scope for an inbound carrier: a child of the
// sender's context when e is valid, a fresh root otherwise. The caller ends
// the returned scope.
func (r *Receiver) Start(ctx context.Context, name string, e Extracted) (context.Context, *scope.Scope) {
	ctx = r.Continue(ctx, e)
	if e.Valid() {
		return r.scopes.StartChild(ctx, name)
	}
	return r.scopes.StartRoot(ctx, name, r.scopes.Sample())
}

// Run is Start plus running op and ending the scope with its result.
func (r *Receiver) Run(ctx context.Context, name string, e Extracted, op func(ctx context.Context) error) error {
	ctx = r.Continue(ctx, e)
	if e.Valid() {
		return r.scopes.RunInChildScope(ctx, name, op)
	}
	return r.scopes.RunInNewScope(ctx, name, r.scopes.Sample(), op)
}

func (r *Receiver) report(ctx context.Context, e Extracted) {
	if !e.Present {
		return
	}
	if e.Err != nil && r.logger != nil {
		r.logger.DebugWithContext(ctx, "ignoring malformed trace carrier", e.Err, map[string]interface{}{
			"source": e.Source,
		})
	}
	if r.observer != nil {
		var traceID string
		if e.Valid() {
			traceID = e.Trace.TraceID.String()
		}
		r.observer.ObserveOperation(observability.OperationContext{
			Component: observability.ComponentCarrier,
			Operation: "decode",
			Resource:  e.Source,
			TraceID:   traceID,
			Error:     e.Err,
		})
	}
}
