/*
Package tracing provides lightweight request tracing.

Each inbound request gets a span; the trace ID is returned to the caller in
X-Trace-ID and forwarded to the style-data service on the upstream fetch so
one stylesheet request can be followed across both services. Finished spans
are logged through zap by a background collector.

# Usage

	tracer := tracing.New("stylesheet", logger.Logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	// outgoing call
	tracing.InjectTraceContext(ctx, req.Header)
*/
package tracing
