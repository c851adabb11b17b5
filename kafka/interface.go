package kafka

import (
	"context"
	"sync"

	"github.com/aalemi-dev/tracewire/receiver"
)

// Client publishes and consumes traced Kafka messages. It is implemented by
// *KafkaClient.
type Client interface {
	// Publish sends one message under its own scope and puts the scope's
	// carrier in the trace-parent and trace-state headers.
	Publish(ctx context.Context, key string, data interface{}, headers ...map[string]interface{}) error

	// Consume delivers messages from a single worker until ctx is done.
	Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message

	// ConsumeParallel delivers messages from numWorkers workers.
	ConsumeParallel(ctx context.Context, wg *sync.WaitGroup, numWorkers int) <-chan Message

	// GracefulShutdown closes the writer and reader.
	GracefulShutdown()
}

// Message is a consumed Kafka message.
type Message interface {
	// CommitMsg marks the message processed.
	CommitMsg() error

	Body() []byte

	// BodyAs decodes the body with the configured Deserializer.
	BodyAs(target interface{}) error

	Key() string
	Header() map[string]interface{}
	Partition() int
	Offset() int64

	// Trace is the carrier found in the trace-parent and trace-state
	// headers.
	Trace() receiver.Extracted

	// Context returns ctx with the message's carrier installed as the
	// remote parent. A missing or malformed carrier leaves ctx unchanged.
	Context(ctx context.Context) context.Context
}
