package kafka

import (
	"time"

	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/tracectx"
)

func (k *KafkaClient) observeOperation(operation, subResource string, tc tracectx.TraceContext, duration time.Duration, err error, size int64) {
	if k.observer == nil {
		return
	}
	var traceID string
	if tc.IsValid() {
		traceID = tc.TraceID.String()
	}
	k.observer.ObserveOperation(observability.OperationContext{
		Component:   observability.ComponentKafka,
		Operation:   operation,
		Resource:    k.cfg.Topic,
		SubResource: subResource,
		TraceID:     traceID,
		Duration:    duration,
		Error:       err,
		Size:        size,
	})
}
