// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversation metrics track what users ask for.
var (
	// TurnsTotal counts completed turns by resolved intent
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsbot_turns_total",
			Help: "Total number of conversational turns by intent",
		},
		[]string{"intent"},
	)

	// TurnDuration measures end-to-end turn latency
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsbot_turn_duration_seconds",
			Help:    "Time taken to answer a turn",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"intent"},
	)
)

// Collaborator metrics track calls to the news provider and the entity extractor.
var (
	// NewsLookupsTotal counts news provider calls by provider, mode and result
	NewsLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsbot_news_lookups_total",
			Help: "Total number of news lookups",
		},
		[]string{"provider", "mode", "result"},
	)

	// NewsLookupDuration measures news provider latency
	NewsLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsbot_news_lookup_duration_seconds",
			Help:    "Time taken by the news provider",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"provider"},
	)

	// EntityExtractionsTotal counts extractor calls by result
	EntityExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsbot_entity_extractions_total",
			Help: "Total number of entity extraction calls",
		},
		[]string{"result"},
	)

	// EntitiesExtracted measures how many entities a call returns
	EntitiesExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsbot_entities_extracted",
			Help:    "Number of entities returned per extraction",
			Buckets: []float64{0, 1, 2, 3, 5, 8},
		},
	)

	// EntityExtractionDuration measures extractor latency
	EntityExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsbot_entity_extraction_duration_seconds",
			Help:    "Time taken by the entity extractor",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		},
	)
)

// CircuitBreakerState exposes breaker state per collaborator (0 closed, 1 half-open, 2 open).
var CircuitBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "newsbot_circuit_breaker_state",
		Help: "Circuit breaker state by name (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)
