package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/auth"
	"github.com/aalemi-dev/tracewire/config"
	"github.com/aalemi-dev/tracewire/httpbinder"
	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/scope"
	"github.com/aalemi-dev/tracewire/tracer"
	"github.com/aalemi-dev/tracewire/wsbinder"
)

type rootFlags struct {
	envFile    string
	apiURL     string
	wsURL      string
	logLevel   string
	traceState string
	sampleRate float64
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "tracedemo",
		Short:        "Trace propagation demo client",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "The .env file to load, if it exists.")
	pf.StringVar(&flags.apiURL, "api-url", "", "Overrides API_URL.")
	pf.StringVar(&flags.wsURL, "ws-url", "", "Overrides WS_URL.")
	pf.StringVar(&flags.logLevel, "log-level", "", "Overrides LOG_LEVEL.")
	pf.StringVar(&flags.traceState, "trace-state", "", "Overrides TRACE_STATE.")
	pf.Float64Var(&flags.sampleRate, "sample-rate", 1, "Overrides TRACE_SAMPLE_RATE.")

	root.AddCommand(
		newLoginCmd(flags),
		newRegisterCmd(flags),
		newLogoutCmd(flags),
		newStatusCmd(flags),
		newWSCmd(flags),
	)
	return root
}

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadFrom(flags.envFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("api-url") {
		cfg.APIURL = flags.apiURL
	}
	if changed("ws-url") {
		cfg.WSURL = flags.wsURL
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("trace-state") {
		cfg.TraceState = flags.traceState
	}
	if changed("sample-rate") {
		cfg.TraceSampleRate = flags.sampleRate
	}
	return cfg, cfg.Validate()
}

// client is what the subcommands work with.
type client struct {
	Auth *auth.Service
	WS   *wsbinder.WSClient
}

// withClient builds the client graph, runs fn, and stops the graph so
// pending spans are flushed before the process exits.
func withClient(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, c client) error) (err error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	var c client
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		config.FXModule,
		logger.FXModule,
		tracer.FXModule,
		scope.FXModule,
		httpbinder.FXModule,
		auth.FXModule,
		wsbinder.FXModule,
		fx.Populate(&c.Auth, &c.WS),
	)

	ctx := cmd.Context()
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		if stopErr := app.Stop(context.WithoutCancel(ctx)); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	return fn(ctx, c)
}
