package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/scope"
)

// FXModule provides *KafkaClient and the Client interface, and shuts the
// client down with the application.
//
//	app := fx.New(
//	    scope.FXModule,
//	    kafka.FXModule,
//	    fx.Provide(func() kafka.Config { return cfg }),
//	)
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(k *KafkaClient) Client { return k },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

// KafkaParams groups the dependencies needed to create a Kafka client.
type KafkaParams struct {
	fx.In

	Config       Config
	Scopes       *scope.Manager
	Logger       logger.Logger          `optional:"true"`
	Serializer   Serializer             `optional:"true"`
	Deserializer Deserializer           `optional:"true"`
	Observer     observability.Observer `optional:"true"`
}

// NewClientWithDI creates a Kafka client from injected dependencies.
// Injected serializers override the DataType defaults.
func NewClientWithDI(params KafkaParams) (*KafkaClient, error) {
	client, err := NewClient(params.Config, params.Scopes)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	if params.Serializer != nil {
		client.WithSerializer(params.Serializer)
	}
	if params.Deserializer != nil {
		client.WithDeserializer(params.Deserializer)
	}
	if params.Observer != nil {
		client.WithObserver(params.Observer)
	}
	return client, nil
}

// KafkaLifecycleParams groups the dependencies for lifecycle management.
type KafkaLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *KafkaClient
}

// RegisterKafkaLifecycle shuts the client down when the application stops.
func RegisterKafkaLifecycle(params KafkaLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Client.logInfo(ctx, "Kafka client started", map[string]interface{}{
				"topic":    params.Client.cfg.Topic,
				"consumer": params.Client.cfg.IsConsumer,
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Client.logInfo(ctx, "Shutting down Kafka client", nil)
			params.Client.GracefulShutdown()
			return nil
		},
	})
}

// GracefulShutdown stops the consumer workers and closes the writer and
// reader. Close errors are logged, not returned. Safe to call more than once.
func (k *KafkaClient) GracefulShutdown() {
	k.closeShutdownOnce.Do(func() {
		close(k.shutdownSignal)

		k.mu.Lock()
		defer k.mu.Unlock()

		if k.writer != nil {
			if err := k.writer.Close(); err != nil {
				k.logWarn(context.Background(), "Failed to close Kafka writer", err, nil)
			}
		}
		if k.reader != nil {
			if err := k.reader.Close(); err != nil {
				k.logWarn(context.Background(), "Failed to close Kafka reader", err, nil)
			}
		}
	})
}
