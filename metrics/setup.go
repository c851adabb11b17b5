package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns two Prometheus registries, each optionally served on its own
// HTTP server.
type Metrics struct {
	// SystemServer serves SystemRegistry on /metrics. nil when disabled.
	SystemServer *http.Server

	// ApplicationServer serves ApplicationRegistry on /metrics. nil when
	// disabled.
	ApplicationServer *http.Server

	// SystemRegistry holds the Go runtime, process and build info collectors.
	SystemRegistry *prometheus.Registry

	// ApplicationRegistry holds every metric created through this instance.
	ApplicationRegistry *prometheus.Registry

	// applicationRegisterer adds the service label to application metrics.
	applicationRegisterer prometheus.Registerer
}

// NewMetrics builds the registries and servers described by cfg. Servers are
// not started; RegisterMetricsLifecycle does that under Fx.
func NewMetrics(cfg Config) *Metrics {
	m := &Metrics{}
	serviceLabel := prometheus.Labels{"service": cfg.ServiceName}

	systemAddr := DefaultSystemMetricsAddress
	if cfg.SystemMetricsAddress != nil {
		systemAddr = *cfg.SystemMetricsAddress
	}
	if systemAddr != "" {
		m.SystemRegistry = prometheus.NewRegistry()
		prometheus.WrapRegistererWith(serviceLabel, m.SystemRegistry).MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
		m.SystemServer = &http.Server{
			Addr:    systemAddr,
			Handler: promhttp.HandlerFor(m.SystemRegistry, promhttp.HandlerOpts{}),
		}
	}

	// The application registry always exists so that the operation observer
	// can count even when nothing scrapes it.
	m.ApplicationRegistry = prometheus.NewRegistry()
	m.applicationRegisterer = prometheus.WrapRegistererWith(serviceLabel, m.ApplicationRegistry)

	appAddr := DefaultApplicationMetricsAddress
	if cfg.ApplicationMetricsAddress != nil {
		appAddr = *cfg.ApplicationMetricsAddress
	}
	if appAddr != "" {
		m.ApplicationServer = &http.Server{
			Addr:    appAddr,
			Handler: promhttp.HandlerFor(m.ApplicationRegistry, promhttp.HandlerOpts{}),
		}
	}

	return m
}
