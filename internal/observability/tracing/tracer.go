package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName names the tracer used across the newsbot application.
const instrumentationName = "newsbot"

// GetTracer returns the tracer of the currently installed global provider.
// It is looked up on every call so that spans follow Setup and test providers.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
