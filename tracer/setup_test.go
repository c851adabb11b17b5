package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/aalemi-dev/tracewire/carrier"
)

func TestNewClient_NoExport(t *testing.T) {
	t.Parallel()
	cfg := Config{
		ServiceName:  "test-service",
		AppEnv:       "test",
		EnableExport: false,
	}

	client, err := NewClient(cfg)

	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.NotNil(t, client.tracer)
}

func TestNewClient_EmptyServiceName(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{AppEnv: "test"})

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClient_EnableExport_NoCollector(t *testing.T) {
	t.Parallel()
	cfg := Config{
		ServiceName:  "test-service",
		AppEnv:       "production",
		EnableExport: true,
	}

	// The OTLP HTTP exporter connects lazily, so NewClient succeeds even without a collector.
	client, err := NewClient(cfg)

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClient_EnableExport_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := newClientWithContext(ctx, Config{ServiceName: "test-service", AppEnv: "test", EnableExport: true})

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to initialize OTLP exporter")
}

func TestNewClient_InstallsCarrierPropagator(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{ServiceName: "test-service"})
	require.NoError(t, err)

	assert.ElementsMatch(t, carrier.Propagator{}.Fields(), otel.GetTextMapPropagator().Fields())
}

func TestNewClient_WithSpanProcessor(t *testing.T) {
	t.Parallel()
	rec := tracetest.NewSpanRecorder()

	client, err := NewClient(Config{ServiceName: "test-service"}, WithSpanProcessor(rec))
	require.NoError(t, err)

	_, span := client.StartSpan(context.Background(), "recorded")
	span.End()

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, "recorded", rec.Ended()[0].Name())
}

func TestShutdown_NilProvider(t *testing.T) {
	t.Parallel()
	client := &TracerClient{}

	assert.NoError(t, client.Shutdown(context.Background()))
	assert.NoError(t, client.ForceFlush(context.Background()))
}
