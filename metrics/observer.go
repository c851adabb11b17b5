package metrics

import (
	"github.com/aalemi-dev/tracewire/observability"
)

// Names of the metrics recorded by MetricsObserver.
const (
	OperationsTotalName      = "tracewire_operations_total"
	OperationDurationName    = "tracewire_operation_duration_seconds"
	CarrierDecodeFailureName = "tracewire_carrier_decode_failures_total"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// MetricsObserver turns operation events into Prometheus metrics. It
// implements observability.Observer and is safe for concurrent use.
type MetricsObserver struct {
	operations     Counter
	duration       Histogram
	decodeFailures Counter
}

// NewMetricsObserver registers the tracewire operation metrics on c.
// Call it once per collector; a second registration panics.
func NewMetricsObserver(c MetricsCollector) *MetricsObserver {
	return &MetricsObserver{
		operations: c.CreateCounter(OperationsTotalName,
			"Completed transport and propagation operations.",
			[]string{"component", "operation", "status"}),
		duration: c.CreateHistogram(OperationDurationName,
			"Duration of transport and propagation operations.",
			[]string{"component", "operation"}, nil),
		decodeFailures: c.CreateCounter(CarrierDecodeFailureName,
			"Inbound carriers that were present but malformed.",
			[]string{"source"}),
	}
}

// ObserveOperation records one completed operation.
func (o *MetricsObserver) ObserveOperation(ctx observability.OperationContext) {
	status := statusSuccess
	if ctx.Error != nil {
		status = statusError
	}

	o.operations.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	o.duration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	if ctx.Component == observability.ComponentCarrier && ctx.Operation == "decode" && ctx.Error != nil {
		o.decodeFailures.WithLabelValues(ctx.Resource).Inc()
	}
}
