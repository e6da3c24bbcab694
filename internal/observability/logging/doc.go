// Package logging provides structured logging utilities with context propagation.
//
// Logs are written to stderr so that they never interleave with the
// conversation printed on stdout.
//
// Example usage:
//
//	logger := logging.NewLogger(logging.Options{Level: "info", Format: "text"})
//	ctx = logging.WithLogger(ctx, logging.WithTurnID(ctx, logger))
//	logging.FromContext(ctx).Info("turn started")
package logging
