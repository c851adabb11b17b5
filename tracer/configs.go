package tracer

import sdktrace "go.opentelemetry.io/otel/sdk/trace"

// Config defines the configuration for the OpenTelemetry tracer.
// It controls service identification, environment settings, and whether
// spans should be exported to an observability backend.
type Config struct {
	// ServiceName specifies the name of the service using this tracer.
	// It is set as the service.name resource attribute on every span.
	ServiceName string

	// AppEnv indicates the deployment environment where the service is running.
	// This field is used to set the "deployment.environment" and "environment"
	// resource attributes on all spans.
	AppEnv string

	// EnableExport controls whether spans are exported to an OTLP collector.
	// When false, spans are still created and identifiers still propagate;
	// they just never leave the process.
	EnableExport bool
}

// Option customises the tracer provider.
type Option func(*options)

type options struct {
	processors []sdktrace.SpanProcessor
}

// WithSpanProcessor registers an additional span processor, such as a
// tracetest.SpanRecorder.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) {
		o.processors = append(o.processors, sp)
	}
}
