package metrics

import "time"

// ChatRecorder records conversation metrics to the Prometheus default registry.
// It satisfies chat.MetricsRecorder.
type ChatRecorder struct{}

// NewChatRecorder returns a recorder backed by the package level collectors.
func NewChatRecorder() ChatRecorder {
	return ChatRecorder{}
}

// RecordTurn counts a turn and observes its duration.
func (ChatRecorder) RecordTurn(intent string, duration time.Duration) {
	TurnsTotal.WithLabelValues(intent).Inc()
	TurnDuration.WithLabelValues(intent).Observe(duration.Seconds())
}

// RecordNewsLookup counts a provider call. Calls that never reached the
// provider (result "not_configured") are counted but not timed.
func (ChatRecorder) RecordNewsLookup(provider, mode, result string, duration time.Duration) {
	NewsLookupsTotal.WithLabelValues(provider, mode, result).Inc()
	if result != "not_configured" {
		NewsLookupDuration.WithLabelValues(provider).Observe(duration.Seconds())
	}
}

// RecordExtraction counts an extractor call.
func (ChatRecorder) RecordExtraction(result string, entities int, duration time.Duration) {
	EntityExtractionsTotal.WithLabelValues(result).Inc()
	EntityExtractionDuration.Observe(duration.Seconds())
	if result == "success" {
		EntitiesExtracted.Observe(float64(entities))
	}
}

// SetCircuitBreakerState publishes a breaker state transition.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
