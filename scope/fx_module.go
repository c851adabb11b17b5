package scope

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/tracer"
)

// FXModule provides the scope *Manager.
var FXModule = fx.Module("scope",
	fx.Provide(NewManagerWithDI),
)

// ManagerParams groups the dependencies for creating a Manager. Only the
// Config is required.
type ManagerParams struct {
	fx.In

	Config   Config
	Tracer   tracer.Tracer          `optional:"true"`
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewManagerWithDI creates a Manager from injected dependencies.
func NewManagerWithDI(params ManagerParams) *Manager {
	m := NewManager(params.Config, params.Tracer)
	if params.Logger != nil {
		m.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		m.WithObserver(params.Observer)
	}
	return m
}
