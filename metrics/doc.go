// Package metrics exposes Prometheus metrics for tracewire binaries.
//
// Two registries are kept apart. The system registry carries Go runtime,
// process and build info collectors. The application registry carries the
// operation metrics and anything created through MetricsCollector. Each can
// be served on its own address (default :9090 and :9091) and either can be
// disabled with Ptr("").
//
// # Operation Metrics
//
// MetricsObserver implements observability.Observer, so it can be handed to
// any binder with WithObserver:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "tracedemo"})
//	obs := metrics.NewMetricsObserver(m)
//	client := httpbinder.NewClient(cfg, scopes).WithObserver(obs)
//
// It records:
//
//	tracewire_operations_total{component,operation,status}
//	tracewire_operation_duration_seconds{component,operation}
//	tracewire_carrier_decode_failures_total{source}
//
// All metrics carry a constant service label taken from Config.ServiceName.
//
// # Fx
//
// FXModule provides *Metrics, MetricsCollector and observability.Observer,
// and runs both servers for the lifetime of the application.
package metrics
