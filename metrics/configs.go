package metrics

// Default addresses for the two metrics servers.
const (
	DefaultSystemMetricsAddress      = ":9090"
	DefaultApplicationMetricsAddress = ":9091"
)

// Config configures the Prometheus endpoints.
//
// The system endpoint exposes Go runtime, process and build info collectors.
// The application endpoint exposes the tracewire operation metrics and any
// metric created through MetricsCollector.
type Config struct {
	// SystemMetricsAddress is the listen address of the system endpoint.
	// nil selects DefaultSystemMetricsAddress; a pointer to "" disables it.
	SystemMetricsAddress *string `yaml:"system_metrics_address" envconfig:"METRICS_SYSTEM_ADDRESS"`

	// ApplicationMetricsAddress is the listen address of the application
	// endpoint. nil selects DefaultApplicationMetricsAddress; a pointer to ""
	// disables the server but metrics are still collected in the registry.
	ApplicationMetricsAddress *string `yaml:"application_metrics_address" envconfig:"METRICS_APPLICATION_ADDRESS"`

	// ServiceName is attached to every metric as the "service" label.
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`
}

// Ptr returns a pointer to s. Use Ptr("") to disable an endpoint.
func Ptr(s string) *string {
	return &s
}
