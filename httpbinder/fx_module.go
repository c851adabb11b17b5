package httpbinder

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/scope"
)

// FXModule provides *HTTPClient and the Requester interface.
var FXModule = fx.Module("httpbinder",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(c *HTTPClient) Requester { return c },
			fx.As(new(Requester)),
		),
	),
)

// HTTPParams groups the dependencies for creating an HTTPClient.
type HTTPParams struct {
	fx.In

	Config   Config
	Scopes   *scope.Manager
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates an HTTPClient from injected dependencies.
func NewClientWithDI(params HTTPParams) (*HTTPClient, error) {
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
