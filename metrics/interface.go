package metrics

// MetricsCollector creates application metrics. It is implemented by *Metrics
// and exposes no Prometheus types.
//
// Every metric is registered on the application registry and carries the
// service label. Registering the same name twice panics, as with Prometheus.
type MetricsCollector interface {
	// CreateCounter registers a counter vector.
	//
	//   c := m.CreateCounter("ws_messages_total", "WebSocket messages", []string{"type"})
	//   c.WithLabelValues("ping").Inc()
	CreateCounter(name, help string, labels []string) Counter

	// CreateHistogram registers a histogram vector with the given buckets.
	CreateHistogram(name, help string, labels []string, buckets []float64) Histogram

	// CreateGauge registers a gauge vector.
	CreateGauge(name, help string, labels []string) Gauge

	// CreateSummary registers a summary vector with the given quantile
	// objectives.
	CreateSummary(name, help string, labels []string, objectives map[float64]float64) Summary
}
