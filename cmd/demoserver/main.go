// Command demoserver runs the backend for tracedemo. It reads the same
// environment as the client, so one .env configures both.
package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/aalemi-dev/tracewire/config"
	"github.com/aalemi-dev/tracewire/demoserver"
	"github.com/aalemi-dev/tracewire/kafka"
	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/metrics"
	"github.com/aalemi-dev/tracewire/receiver"
	"github.com/aalemi-dev/tracewire/scope"
	"github.com/aalemi-dev/tracewire/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.LogLevel != logger.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	fx.New(options(cfg)...).Run()
}

func options(cfg *config.Config) []fx.Option {
	opts := []fx.Option{
		fx.Supply(cfg),
		fx.WithLogger(func(log *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Zap}
		}),
		config.FXModule,
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		scope.FXModule,
		receiver.FXModule,
		demoserver.FXModule,
	}

	if cfg.KafkaEnabled() {
		opts = append(opts,
			fx.Provide(func(c *config.Config) kafka.Config { return c.KafkaPublisher() }),
			kafka.FXModule,
			fx.Invoke(registerEventLog),
		)
	}
	return opts
}

// registerEventLog consumes the published events with a second client.
func registerEventLog(lc fx.Lifecycle, cfg *config.Config, scopes *scope.Manager, rcv *receiver.Receiver, log logger.Logger) error {
	consumer, err := kafka.NewClient(cfg.KafkaConsumer(), scopes)
	if err != nil {
		return err
	}
	consumer.WithLogger(log)

	lc.Append(fx.StopHook(consumer.GracefulShutdown))
	demoserver.RegisterEventLogLifecycle(lc, demoserver.NewEventLog(consumer, rcv, cfg.KafkaTopic).WithLogger(log))
	return nil
}
