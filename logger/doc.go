// Package logger provides structured JSON logging on top of Uber's Zap.
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Logger interface: Defines the contract for logging operations
//   - LoggerClient struct: Concrete implementation of the Logger interface
//   - NewLoggerClient constructor: Returns *LoggerClient (concrete type)
//   - FXModule: Provides both *LoggerClient and Logger interface for dependency injection
//
// Every method takes a message, an optional error and optional field maps:
//
//	log.Info("token stored", nil, map[string]interface{}{"storage_key": "auth_token"})
//	log.Error("request failed", err, map[string]interface{}{"status": 401})
//
// # Trace Correlation
//
// With Config.EnableTracing the *WithContext methods add trace_id, span_id and
// sampled from the trace context that the scope package stores in ctx, so log
// lines can be joined with spans and with the carriers sent on the wire:
//
//	log.InfoWithContext(ctx, "ws message sent", nil, map[string]interface{}{"type": "ping"})
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config {
//	        return logger.Config{Level: logger.Info, ServiceName: "tracewire-demo"}
//	    }),
//	)
package logger
