package demoserver

import (
	"github.com/aalemi-dev/tracewire/metrics"
)

// Names of the metrics registered by WithMetrics.
const (
	ConnectionsMetricName     = "tracewire_demo_ws_connections"
	MessageDurationMetricName = "tracewire_demo_message_duration_seconds"
)

type serverMetrics struct {
	connections metrics.Gauge
	duration    metrics.Summary
}

func newServerMetrics(c metrics.MetricsCollector) *serverMetrics {
	return &serverMetrics{
		connections: c.CreateGauge(ConnectionsMetricName,
			"Open WebSocket connections.", nil),
		duration: c.CreateSummary(MessageDurationMetricName,
			"Time spent handling one WebSocket envelope.",
			[]string{"type"},
			map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}),
	}
}

// messageLabel keeps the type label bounded to the handled types.
func messageLabel(msgType string) string {
	switch msgType {
	case "ping", "work", "boom":
		return msgType
	default:
		return "unknown"
	}
}
