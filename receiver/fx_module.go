package receiver

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/scope"
)

// FXModule provides the *Receiver.
var FXModule = fx.Module("receiver",
	fx.Provide(NewReceiverWithDI),
)

// ReceiverParams groups the dependencies for creating a Receiver.
type ReceiverParams struct {
	fx.In

	Scopes   *scope.Manager
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewReceiverWithDI creates a Receiver from injected dependencies.
func NewReceiverWithDI(params ReceiverParams) *Receiver {
	r := New(params.Scopes)
	if params.Logger != nil {
		r.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		r.WithObserver(params.Observer)
	}
	return r
}
