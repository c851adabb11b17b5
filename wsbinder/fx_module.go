package wsbinder

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/scope"
)

// FXModule provides *WSClient and closes it when the application stops.
var FXModule = fx.Module("wsbinder",
	fx.Provide(NewClientWithDI),
	fx.Invoke(RegisterWSLifecycle),
)

// WSParams groups the dependencies for creating a WSClient.
type WSParams struct {
	fx.In

	Config   Config
	Scopes   *scope.Manager
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a WSClient from injected dependencies.
func NewClientWithDI(params WSParams) (*WSClient, error) {
	c, err := NewClient(params.Config, params.Scopes)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		c.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		c.WithObserver(params.Observer)
	}
	return c, nil
}

// RegisterWSLifecycle closes any open connection on stop.
func RegisterWSLifecycle(lc fx.Lifecycle, client *WSClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
