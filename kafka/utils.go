package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/receiver"
	"github.com/aalemi-dev/tracewire/scope"
	"github.com/aalemi-dev/tracewire/tracectx"
)

// Publish sends data under key. The message runs in its own scope named
// "kafka.publish.<topic>": a new trace by default, or a child of the
// caller's scope when Config.ChildOfCurrent is set. The scope's carrier is
// written to the trace-parent and trace-state headers, after any headers
// passed by the caller.
//
// []byte data is sent as is; anything else goes through the serializer.
// A failed write returns *PublishError.
//
//	err := client.Publish(ctx, "user-42", map[string]string{"event": "pong"})
func (k *KafkaClient) Publish(ctx context.Context, key string, data interface{}, headers ...map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := "kafka.publish." + k.cfg.Topic
	var sc *scope.Scope
	if k.cfg.ChildOfCurrent {
		ctx, sc = k.scopes.StartChild(ctx, name)
	} else {
		ctx, sc = k.scopes.StartRoot(ctx, name, k.scopes.Sample())
	}
	sc.SetAttributes(map[string]interface{}{
		"op":                    "queue.publish",
		"messaging.system":      "kafka",
		"messaging.destination": k.cfg.Topic,
		"messaging.kafka.key":   key,
	})
	tc, _ := sc.TraceContext()

	start := time.Now()
	var size int64
	err := k.publish(ctx, key, data, tc, &size, headers...)
	sc.End(err)
	k.observeOperation("produce", "", tc, time.Since(start), err, size)

	if err != nil {
		k.logError(ctx, "Kafka publish failed", err, map[string]interface{}{
			"topic": k.cfg.Topic,
			"key":   key,
		})
		return &PublishError{Topic: k.cfg.Topic, Key: key, Trace: tc, Err: err}
	}
	return nil
}

func (k *KafkaClient) publish(ctx context.Context, key string, data interface{}, tc tracectx.TraceContext, size *int64, headers ...map[string]interface{}) error {
	k.mu.RLock()
	writer, serializer := k.writer, k.serializer
	k.mu.RUnlock()

	if writer == nil {
		return ErrWriterNotInitialized
	}

	value, ok := data.([]byte)
	if !ok {
		if serializer == nil {
			return fmt.Errorf("cannot publish non-[]byte data without a serializer, got type %T", data)
		}
		var err error
		if value, err = serializer.Serialize(data); err != nil {
			return fmt.Errorf("failed to serialize message: %w", err)
		}
	}
	*size = int64(len(value))

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: k.messageHeaders(ctx, tc, headers...),
	}
	return writer.WriteMessages(ctx, msg)
}

// messageHeaders converts caller headers and appends the carrier. Carrier
// keys replace caller keys of the same name.
func (k *KafkaClient) messageHeaders(ctx context.Context, tc tracectx.TraceContext, headers ...map[string]interface{}) []kafka.Header {
	var out []kafka.Header
	if len(headers) > 0 {
		for key, v := range headers[0] {
			if key == carrier.HeaderTraceParent || key == carrier.HeaderTraceState {
				continue
			}
			var s string
			switch val := v.(type) {
			case string:
				s = val
			case []byte:
				s = string(val)
			default:
				s = fmt.Sprintf("%v", val)
			}
			out = append(out, kafka.Header{Key: key, Value: []byte(s)})
		}
	}

	if !tc.IsValid() {
		return out
	}
	out = append(out, kafka.Header{Key: carrier.HeaderTraceParent, Value: []byte(carrier.Encode(tc))})
	if state := k.scopes.State(ctx); state != "" {
		out = append(out, kafka.Header{Key: carrier.HeaderTraceState, Value: []byte(state)})
	}
	return out
}

// Consume starts a single consumer worker. See ConsumeParallel.
func (k *KafkaClient) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	return k.ConsumeParallel(ctx, wg, 1)
}

// ConsumeParallel fetches messages with numWorkers goroutines and delivers
// them on the returned channel, which is closed when ctx is done or the
// client shuts down. wg tracks the workers.
//
//	msgs := client.ConsumeParallel(ctx, wg, 4)
//	for msg := range msgs {
//		err := rcv.Run(ctx, "kafka.consume", msg.Trace(), handle(msg))
//		...
//		_ = msg.CommitMsg()
//	}
func (k *KafkaClient) ConsumeParallel(ctx context.Context, wg *sync.WaitGroup, numWorkers int) <-chan Message {
	if numWorkers < 1 {
		numWorkers = 1
	}

	outChan := make(chan Message, 100*numWorkers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(outChan)

		workerWg := &sync.WaitGroup{}
		for i := 0; i < numWorkers; i++ {
			workerWg.Add(1)
			go func(workerID int) {
				defer workerWg.Done()
				k.consumeWorker(ctx, outChan, workerID)
			}(i)
		}
		workerWg.Wait()
	}()

	return outChan
}

func (k *KafkaClient) consumeWorker(ctx context.Context, outChan chan<- Message, workerID int) {
	for {
		select {
		case <-k.shutdownSignal:
			k.logInfo(ctx, "Stopping consumer worker due to shutdown signal", map[string]interface{}{
				"worker_id": workerID,
			})
			return
		case <-ctx.Done():
			k.logInfo(ctx, "Stopping consumer worker due to context cancellation", map[string]interface{}{
				"worker_id": workerID,
			})
			return
		default:
		}

		k.mu.RLock()
		reader, deserializer := k.reader, k.deserializer
		k.mu.RUnlock()

		if reader == nil {
			k.logError(ctx, "Kafka reader is not initialized", ErrReaderNotInitialized, map[string]interface{}{
				"worker_id": workerID,
			})
			return
		}

		start := time.Now()
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			k.observeOperation("consume", "", tracectx.TraceContext{}, time.Since(start), err, 0)
			k.logError(ctx, "Worker failed to fetch message", err, map[string]interface{}{
				"worker_id": workerID,
			})
			continue
		}

		cm := &ConsumerMessage{
			message:      msg,
			reader:       reader,
			deserializer: deserializer,
			scopes:       k.scopes,
		}
		k.observeOperation("consume", strconv.Itoa(msg.Partition), cm.Trace().Trace, time.Since(start), nil, int64(len(msg.Value)))

		select {
		case outChan <- cm:
		case <-ctx.Done():
			return
		case <-k.shutdownSignal:
			return
		}
	}
}

// ConsumerMessage implements Message for a fetched kafka-go message.
type ConsumerMessage struct {
	message      kafka.Message
	reader       messageReader
	deserializer Deserializer
	scopes       *scope.Manager
}

func (cm *ConsumerMessage) CommitMsg() error {
	return cm.reader.CommitMessages(context.Background(), cm.message)
}

func (cm *ConsumerMessage) Body() []byte { return cm.message.Value }

// BodyAs decodes the body with the client's Deserializer, or JSON if none
// is configured.
func (cm *ConsumerMessage) BodyAs(target interface{}) error {
	d := cm.deserializer
	if d == nil {
		d = &JSONDeserializer{}
	}
	return d.Deserialize(cm.message.Value, target)
}

func (cm *ConsumerMessage) Key() string { return string(cm.message.Key) }

func (cm *ConsumerMessage) Header() map[string]interface{} {
	headers := make(map[string]interface{}, len(cm.message.Headers))
	for _, h := range cm.message.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}

func (cm *ConsumerMessage) Partition() int { return cm.message.Partition }

func (cm *ConsumerMessage) Offset() int64 { return cm.message.Offset }

func (cm *ConsumerMessage) Trace() receiver.Extracted {
	headers := make(map[string]string, 2)
	for _, h := range cm.message.Headers {
		if h.Key == carrier.HeaderTraceParent || h.Key == carrier.HeaderTraceState {
			headers[h.Key] = string(h.Value)
		}
	}
	return receiver.FromMap(headers)
}

func (cm *ConsumerMessage) Context(ctx context.Context) context.Context {
	e := cm.Trace()
	if !e.Valid() || cm.scopes == nil {
		return ctx
	}
	return cm.scopes.ContinueRemote(ctx, e.Trace, e.State)
}
