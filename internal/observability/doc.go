// Package observability groups the logging, metrics and tracing packages of
// newsbot.
//
// Subpackages:
//   - logging: slog construction and context propagation (turn IDs)
//   - metrics: Prometheus collectors for turns, news lookups and entity extraction
//   - tracing: OpenTelemetry spans per turn, exported to the logger when enabled
package observability
