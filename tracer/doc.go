// Package tracer records spans through OpenTelemetry for trace contexts minted
// by the scope package.
//
// The package follows the "accept interfaces, return structs" Go idiom:
//   - Tracer interface: Defines the contract for tracing operations
//   - TracerClient struct: Concrete implementation of the Tracer interface
//   - Span interface: Defines the contract for span operations
//   - Constructor returns *TracerClient (concrete type)
//   - FX module provides both *TracerClient and Tracer interface
//
// # Identity
//
// The span and trace identifiers are not chosen by the SDK. The provider is
// configured with an ID generator that adopts the tracectx.TraceContext stored
// in the start context, and with a sampler that honours its sampled flag. A span
// started inside a scope therefore has exactly the identifiers that the scope
// puts on the wire:
//
//	tc, _ := tracectx.NewRoot(ids.Default(), true)
//	ctx := tracectx.NewContext(context.Background(), tc)
//	ctx, span := client.StartRootSpan(ctx, "auth.login")
//	defer span.End()
//	// trace.SpanContextFromContext(ctx).TraceID() == tc.TraceID
//
// Without a trace context in ctx the provider falls back to fresh random ids.
//
// # Export
//
// With EnableExport the provider batches spans to an OTLP/HTTP collector. The
// exporter reads the standard OTEL_EXPORTER_OTLP_* environment variables and
// connects lazily, so a missing collector never blocks startup. Additional
// processors (for example an in-memory recorder in tests) can be attached with
// WithSpanProcessor.
//
// # Propagation
//
// NewClient installs carrier.Propagator as the global text map propagator, so
// GetCarrier and SetCarrierOnContext speak the trace-parent / trace-state
// headers:
//
//	headers := client.GetCarrier(ctx)          // {"trace-parent": "..."}
//	ctx = client.SetCarrierOnContext(ctx, headers)
//
// # FX Module Integration
//
//	app := fx.New(
//		tracer.FXModule,
//		fx.Provide(func() tracer.Config {
//			return tracer.Config{ServiceName: "tracewire-demo", AppEnv: "development"}
//		}),
//	)
//
// # Thread Safety
//
// All methods on the TracerClient type and Span interface are safe for concurrent use
// by multiple goroutines.
package tracer
