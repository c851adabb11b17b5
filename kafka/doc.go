/*
Package kafka publishes and consumes Kafka messages that carry a trace
context, using segmentio/kafka-go.

# Publishing

Every Publish runs in a scope named "kafka.publish.<topic>". By default that
scope is a new root, so each message starts its own trace in the same way a
WebSocket send does. Set Config.ChildOfCurrent to make it a child of the
caller's scope instead, which keeps the message in the trace of the request
that produced it:

	client, err := kafka.NewClient(kafka.Config{
		Brokers:        []string{"localhost:9092"},
		Topic:          "demo.events",
		ChildOfCurrent: true,
	}, scopes)
	if err != nil {
		return err
	}
	defer client.GracefulShutdown()

	err = client.Publish(ctx, "user-42", map[string]interface{}{"type": "pong"})

The scope's carrier is written to the trace-parent header and the state blob
to trace-state. Non-[]byte values are encoded with the serializer chosen by
Config.DataType ("json" by default, "string" or "bytes").

# Consuming

	wg := &sync.WaitGroup{}
	for msg := range consumer.Consume(ctx, wg) {
		err := rcv.Run(ctx, "kafka.consume demo.events", msg.Trace(), func(ctx context.Context) error {
			var event Event
			return msg.BodyAs(&event)
		})
		...
		_ = msg.CommitMsg()
	}

Message.Trace decodes the carrier headers; a malformed header is reported as
such and handled like a missing one. Message.Context installs a valid carrier
as the remote parent of ctx.

# Errors

A failed write returns *PublishError, which carries the trace context of the
message and unwraps to the kafka-go error. IsRetryableError and
IsAuthenticationError classify kafka-go errors.

# Fx

FXModule provides *KafkaClient and Client. It needs a Config and a
*scope.Manager; Logger, Serializer, Deserializer and observability.Observer
are optional.
*/
package kafka
