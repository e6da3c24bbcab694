// Package tracing provides OpenTelemetry tracing integration.
//
// Every conversational turn opens a root span ("chat.Respond") with child spans
// for entity extraction and news lookups. When tracing is enabled the spans are
// exported to the structured logger at debug level; otherwise the global no-op
// provider discards them.
//
// Example usage:
//
//	shutdown := tracing.Setup(cfg.TracingEnabled, version, logger)
//	defer func() { _ = shutdown(context.Background()) }()
package tracing
