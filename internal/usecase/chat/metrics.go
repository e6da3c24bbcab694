package chat

import "time"

// MetricsRecorder receives per-turn observations.
// The Prometheus implementation lives in internal/observability/metrics;
// tests inject their own recorder.
type MetricsRecorder interface {
	// RecordTurn counts one completed turn for the resolved intent.
	RecordTurn(intent string, duration time.Duration)

	// RecordNewsLookup records a news provider call.
	// result is one of "success", "error", "empty" or "not_configured".
	RecordNewsLookup(provider, mode, result string, duration time.Duration)

	// RecordExtraction records an entity extractor call.
	RecordExtraction(result string, entities int, duration time.Duration)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordTurn(string, time.Duration) {}
func (NoopMetrics) RecordNewsLookup(string, string, string, time.Duration) {}
func (NoopMetrics) RecordExtraction(string, int, time.Duration) {}
