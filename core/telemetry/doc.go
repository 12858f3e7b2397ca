// Package telemetry sets up optional OpenTelemetry tracing.
//
// Spans are created throughout the sync path (reconcile, reconcile.create,
// reconcile.update, reconcile.delete). Without an OTLP endpoint they are
// no-ops. With one, Setup installs a batching tracer provider over a single
// gRPC connection.
//
// # Usage
//
//	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
//	if err != nil {
//	    logger.Warn("Telemetry disabled", zap.Error(err))
//	}
//	defer shutdown(context.Background())
package telemetry
