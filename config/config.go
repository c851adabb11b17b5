// Package config loads the settings of the tracewire binaries from the
// environment, optionally seeded from a .env file, and maps them onto the
// Config type of each package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/aalemi-dev/tracewire/auth"
	"github.com/aalemi-dev/tracewire/demoserver"
	"github.com/aalemi-dev/tracewire/httpbinder"
	"github.com/aalemi-dev/tracewire/kafka"
	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/metrics"
	"github.com/aalemi-dev/tracewire/scope"
	"github.com/aalemi-dev/tracewire/tracer"
	"github.com/aalemi-dev/tracewire/wsbinder"
)

// DefaultEnvFile is read by Load when present.
const DefaultEnvFile = ".env"

// Config holds every setting of the demo client and backend.
type Config struct {
	// APIURL is the base of the auth endpoints.
	APIURL       string        `envconfig:"API_URL" default:"http://localhost:3001"`
	LoginPath    string        `envconfig:"LOGIN_PATH" default:"/auth/login"`
	RegisterPath string        `envconfig:"REGISTER_PATH" default:"/auth/register"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// WSURL and WSPath are joined to form the WebSocket endpoint.
	WSURL  string `envconfig:"WS_URL" default:"ws://localhost:3001/ws"`
	WSPath string `envconfig:"WS_PATH" default:"/demo"`

	AuthStorageKey string `envconfig:"AUTH_STORAGE_KEY" default:"auth_token"`
	AuthStorageDir string `envconfig:"AUTH_STORAGE_DIR"`

	// TraceState is the opaque state blob sent with every carrier.
	TraceState      string  `envconfig:"TRACE_STATE"`
	TraceSampleRate float64 `envconfig:"TRACE_SAMPLE_RATE" default:"1.0"`
	// TracePropagationTargets lists extra origins that receive HTTP trace
	// headers, comma separated. The API origin is always included.
	TracePropagationTargets []string `envconfig:"TRACE_PROPAGATION_TARGETS"`
	TraceExportEnabled      bool     `envconfig:"TRACE_EXPORT_ENABLED" default:"false"`

	ServiceName string `envconfig:"SERVICE_NAME" default:"tracedemo"`
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// ServerAddr is the listen address of the demo backend.
	ServerAddr string `envconfig:"SERVER_ADDR" default:":3001"`

	// KafkaBrokers enables event publishing in the demo backend when set.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"tracewire.demo.events"`
	KafkaGroupID string   `envconfig:"KAFKA_GROUP_ID" default:"tracewire-demo"`

	// Unset metrics addresses use the metrics package defaults; an empty
	// value disables the endpoint.
	MetricsSystemAddress      *string `envconfig:"METRICS_SYSTEM_ADDRESS"`
	MetricsApplicationAddress *string `envconfig:"METRICS_APPLICATION_ADDRESS"`
}

// Load reads DefaultEnvFile if it exists and then the environment.
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom reads the given .env files, skipping missing ones, and then the
// environment. Variables already set in the environment win over the files.
func LoadFrom(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no package can work with.
func (c *Config) Validate() error {
	if math.IsNaN(c.TraceSampleRate) || c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("TRACE_SAMPLE_RATE must be within [0, 1], got %v", c.TraceSampleRate)
	}
	if c.APIURL == "" {
		return errors.New("API_URL must not be empty")
	}
	if c.WSURL == "" {
		return errors.New("WS_URL must not be empty")
	}
	return nil
}

// Warnings lists settings that are accepted but probably not what was
// meant. They are logged at startup.
func (c *Config) Warnings() []string {
	var out []string
	if c.TraceExportEnabled && os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" {
		out = append(out, "TRACE_EXPORT_ENABLED is set but no OTLP endpoint is configured; spans go to the exporter default")
	}
	if c.TraceSampleRate == 0 {
		out = append(out, "TRACE_SAMPLE_RATE is 0; new traces are propagated but never recorded")
	}
	return out
}

// WSEndpoint is WSURL joined with WSPath.
func (c *Config) WSEndpoint() string {
	return strings.TrimSuffix(c.WSURL, "/") + "/" + strings.TrimPrefix(c.WSPath, "/")
}

func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:         c.LogLevel,
		EnableTracing: true,
		ServiceName:   c.ServiceName,
	}
}

func (c *Config) Tracer() tracer.Config {
	return tracer.Config{
		ServiceName:  c.ServiceName,
		AppEnv:       c.AppEnv,
		EnableExport: c.TraceExportEnabled,
	}
}

func (c *Config) Scope() scope.Config {
	return scope.Config{
		SampleRate: scope.Rate(c.TraceSampleRate),
		State:      c.TraceState,
	}
}

func (c *Config) HTTP() httpbinder.Config {
	var targets []string
	if len(c.TracePropagationTargets) > 0 {
		targets = append([]string{c.APIURL}, c.TracePropagationTargets...)
	}
	return httpbinder.Config{
		BaseURL:            c.APIURL,
		PropagationTargets: targets,
		Timeout:            c.HTTPTimeout,
	}
}

func (c *Config) WS() wsbinder.Config {
	return wsbinder.Config{URL: c.WSEndpoint()}
}

func (c *Config) Auth() auth.Config {
	return auth.Config{
		LoginPath:    c.LoginPath,
		RegisterPath: c.RegisterPath,
		StorageKey:   c.AuthStorageKey,
		StorageDir:   c.AuthStorageDir,
	}
}

func (c *Config) Metrics() metrics.Config {
	return metrics.Config{
		SystemMetricsAddress:      c.MetricsSystemAddress,
		ApplicationMetricsAddress: c.MetricsApplicationAddress,
		ServiceName:               c.ServiceName,
	}
}

// Server serves the endpoints the client is configured to call, so one .env
// drives both binaries.
func (c *Config) Server() demoserver.Config {
	wsPath := demoserver.DefaultWSPath
	if u, err := url.Parse(c.WSEndpoint()); err == nil && u.Path != "" {
		wsPath = u.Path
	}
	return demoserver.Config{
		Addr:         c.ServerAddr,
		LoginPath:    c.LoginPath,
		RegisterPath: c.RegisterPath,
		WSPath:       wsPath,
	}
}

// KafkaEnabled reports whether brokers are configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// KafkaPublisher is the backend's event publisher. Events stay in the trace
// of the message that caused them.
func (c *Config) KafkaPublisher() kafka.Config {
	return kafka.Config{
		Brokers:                c.KafkaBrokers,
		Topic:                  c.KafkaTopic,
		ChildOfCurrent:         true,
		AllowAutoTopicCreation: true,
	}
}

// KafkaConsumer reads the events published by KafkaPublisher.
func (c *Config) KafkaConsumer() kafka.Config {
	return kafka.Config{
		Brokers:    c.KafkaBrokers,
		Topic:      c.KafkaTopic,
		GroupID:    c.KafkaGroupID,
		IsConsumer: true,
	}
}
