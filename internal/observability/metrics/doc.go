// Package metrics provides Prometheus metrics registry and recording utilities.
//
// All collectors are registered with the default registry and exposed by the
// optional metrics server (METRICS_ENABLED=true) on /metrics.
//
// Example usage:
//
//	svc, _ := chat.NewService(chat.ServiceConfig{
//	    // ...
//	    Metrics: metrics.NewChatRecorder(),
//	})
package metrics
