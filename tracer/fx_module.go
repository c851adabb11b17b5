package tracer

import (
	"context"
	"log"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// FXModule provides *TracerClient and the Tracer interface, and shuts the
// provider down when the application stops so pending spans are flushed.
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    // other modules...
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientWithDI, // Provides *TracerClient
		fx.Annotate(
			func(t *TracerClient) Tracer { return t },
			fx.As(new(Tracer)),
		),
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerParams groups the dependencies for creating a TracerClient.
type TracerParams struct {
	fx.In

	Config        Config
	SpanProcessor sdktrace.SpanProcessor `optional:"true"`
}

// NewClientWithDI creates a TracerClient from injected dependencies.
func NewClientWithDI(params TracerParams) (*TracerClient, error) {
	var opts []Option
	if params.SpanProcessor != nil {
		opts = append(opts, WithSpanProcessor(params.SpanProcessor))
	}
	return NewClient(params.Config, opts...)
}

// RegisterTracerLifecycle registers an OnStop hook that shuts down the
// provider, flushing any pending spans.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *TracerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			if tracer.tracer == nil {
				log.Println("INFO: tracer is nil, skipping shutdown")
				return nil
			}
			return tracer.Shutdown(ctx)
		},
	})
}
