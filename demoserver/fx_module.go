package demoserver

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/kafka"
	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/metrics"
	"github.com/aalemi-dev/tracewire/receiver"
	"github.com/aalemi-dev/tracewire/scope"
)

// FXModule provides *Server and serves it for the lifetime of the
// application. A kafka.Client in the container, when present, is used as
// the event publisher, and a metrics.MetricsCollector, when present, gets the
// connection and message metrics.
var FXModule = fx.Module("demoserver",
	fx.Provide(NewServerWithDI),
	fx.Invoke(RegisterServerLifecycle),
)

// ServerParams groups the dependencies for creating a Server.
type ServerParams struct {
	fx.In

	Config    Config
	Receiver  *receiver.Receiver
	Scopes    *scope.Manager
	Logger    logger.Logger            `optional:"true"`
	Publisher kafka.Client             `optional:"true"`
	Metrics   metrics.MetricsCollector `optional:"true"`
}

// NewServerWithDI creates a Server from injected dependencies.
func NewServerWithDI(params ServerParams) *Server {
	s := New(params.Config, params.Receiver, params.Scopes)
	if params.Logger != nil {
		s.WithLogger(params.Logger)
	}
	if params.Publisher != nil {
		s.WithPublisher(params.Publisher)
	}
	if params.Metrics != nil {
		s.WithMetrics(params.Metrics)
	}
	return s
}

// RegisterServerLifecycle starts listening on OnStart and shuts down on
// OnStop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Shutdown,
	})
}

// RegisterEventLogLifecycle runs e between OnStart and OnStop.
func RegisterEventLogLifecycle(lc fx.Lifecycle, e *EventLog) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			e.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			e.Stop()
			return nil
		},
	})
}
