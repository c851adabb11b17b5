package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/observability"
)

// FXModule provides *Metrics, the MetricsCollector interface and a
// MetricsObserver exposed as observability.Observer, and starts both metrics
// servers with the application.
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config { return metrics.Config{ServiceName: "demoserver"} }),
//	    fx.Provide(func() *logger.LoggerClient { return log }),
//	)
//
// A *logger.LoggerClient must be available in the container.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
		fx.Annotate(
			NewMetricsObserver,
			fx.As(new(observability.Observer)),
		),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle serves the configured endpoints between OnStart and
// OnStop. Listen errors are logged, not returned, so a busy port never blocks
// the application.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log *logger.LoggerClient) {
	servers := map[string]*http.Server{
		"system":      m.SystemServer,
		"application": m.ApplicationServer,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for name, srv := range servers {
				if srv == nil {
					continue
				}
				go func(name string, srv *http.Server) {
					log.Info("Starting metrics server", nil, map[string]interface{}{
						"endpoint": name,
						"address":  srv.Addr,
					})
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("Error starting metrics server", err, map[string]interface{}{
							"endpoint": name,
						})
					}
				}(name, srv)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			for name, srv := range servers {
				if srv == nil {
					continue
				}
				log.Info("Shutting down metrics server", nil, map[string]interface{}{"endpoint": name})
				if err := srv.Shutdown(ctx); err != nil {
					log.Error("Error shutting down metrics server", err, map[string]interface{}{
						"endpoint": name,
					})
				}
			}
			return nil
		},
	})
}
