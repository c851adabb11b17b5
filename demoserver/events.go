package demoserver

import (
	"context"
	"sync"

	"github.com/aalemi-dev/tracewire/kafka"
	"github.com/aalemi-dev/tracewire/receiver"
)

// EventLog consumes published Events and logs each one in a child scope of
// the message that produced it.
type EventLog struct {
	client   kafka.Client
	receiver *receiver.Receiver
	logger   Logger
	topic    string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEventLog(client kafka.Client, rcv *receiver.Receiver, topic string) *EventLog {
	return &EventLog{client: client, receiver: rcv, topic: topic}
}

func (e *EventLog) WithLogger(logger Logger) *EventLog {
	e.logger = logger
	return e
}

// Start consumes in the background until Stop.
func (e *EventLog) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	msgs := e.client.Consume(ctx, &e.wg)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for msg := range msgs {
			e.handle(ctx, msg)
		}
	}()
}

// Stop cancels consumption and waits for the workers to exit.
func (e *EventLog) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

func (e *EventLog) handle(ctx context.Context, msg kafka.Message) {
	err := e.receiver.Run(ctx, "kafka.consume."+e.topic, msg.Trace(), func(ctx context.Context) error {
		var ev Event
		if err := msg.BodyAs(&ev); err != nil {
			return err
		}
		if e.logger != nil {
			e.logger.InfoWithContext(ctx, "Event received", nil, map[string]interface{}{
				"type":   ev.Type,
				"reply":  ev.Reply,
				"user":   ev.User,
				"failed": ev.Failed,
			})
		}
		return msg.CommitMsg()
	})
	if err != nil && e.logger != nil {
		e.logger.ErrorWithContext(ctx, "Failed to handle event", err, map[string]interface{}{
			"partition": msg.Partition(),
			"offset":    msg.Offset(),
		})
	}
}
