package config

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/auth"
	"github.com/aalemi-dev/tracewire/demoserver"
	"github.com/aalemi-dev/tracewire/httpbinder"
	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/metrics"
	"github.com/aalemi-dev/tracewire/scope"
	"github.com/aalemi-dev/tracewire/tracer"
	"github.com/aalemi-dev/tracewire/wsbinder"
)

// FXModule provides the Config of every package from a *Config, which the
// binary supplies after applying its flags:
//
//	fx.New(fx.Supply(cfg), config.FXModule, logger.FXModule, ...)
//
// Kafka configs are not provided; the publisher and consumer need different
// ones.
var FXModule = fx.Module("config",
	fx.Provide(
		func(c *Config) logger.Config { return c.Logger() },
		func(c *Config) tracer.Config { return c.Tracer() },
		func(c *Config) scope.Config { return c.Scope() },
		func(c *Config) httpbinder.Config { return c.HTTP() },
		func(c *Config) wsbinder.Config { return c.WS() },
		func(c *Config) auth.Config { return c.Auth() },
		func(c *Config) metrics.Config { return c.Metrics() },
		func(c *Config) demoserver.Config { return c.Server() },
	),
	fx.Invoke(LogWarnings),
)

// LogWarnings logs every entry of Config.Warnings.
func LogWarnings(c *Config, log logger.Logger) {
	for _, w := range c.Warnings() {
		log.Warn(w, nil)
	}
}
