package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/ids"
)

// instrumentationName identifies spans created by this module.
const instrumentationName = "github.com/aalemi-dev/tracewire"

// TracerClient wraps the OpenTelemetry TracerProvider. Spans it starts take
// their identity from the trace context stored in the start context.
//
// The TracerClient is safe to share across goroutines.
// It implements the Tracer interface.
type TracerClient struct {
	tracer *trace.TracerProvider
}

// NewClient creates and initializes a new TracerClient.
//
// If trace export is enabled, an OTLP HTTP exporter is attached with a batching
// processor. Resource attributes carry the service name and environment. The
// provider and carrier.Propagator are installed as the OpenTelemetry globals.
//
// Example:
//
//	tracerClient, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "tracewire-demo",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewClient(cfg Config, opts ...Option) (*TracerClient, error) {
	return newClientWithContext(context.Background(), cfg, opts...)
}

func newClientWithContext(ctx context.Context, cfg Config, opts ...Option) (*TracerClient, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	providerOptions := []trace.TracerProviderOption{
		trace.WithIDGenerator(&contextIDGenerator{fallback: ids.Default()}),
		trace.WithSampler(contextSampler{}),
	}

	if cfg.EnableExport {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("failed to initialize OTLP exporter: %w", err)
		}
		exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OTLP exporter: %w", err)
		}
		providerOptions = append(providerOptions, trace.WithBatcher(exporter))
	}

	for _, sp := range o.processors {
		providerOptions = append(providerOptions, trace.WithSpanProcessor(sp))
	}

	providerOptions = append(providerOptions, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := trace.NewTracerProvider(providerOptions...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(carrier.Propagator{})

	return &TracerClient{tracer: tp}, nil
}

// Shutdown flushes pending spans and stops the provider.
func (t *TracerClient) Shutdown(ctx context.Context) error {
	if t.tracer == nil {
		return nil
	}
	return t.tracer.Shutdown(ctx)
}

// ForceFlush exports all ended spans that have not been exported yet.
func (t *TracerClient) ForceFlush(ctx context.Context) error {
	if t.tracer == nil {
		return nil
	}
	return t.tracer.ForceFlush(ctx)
}
