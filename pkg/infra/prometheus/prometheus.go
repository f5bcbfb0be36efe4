package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Generation latency buckets in milliseconds; backends routinely take
	// whole seconds.
	latencyBuckets = []float64{
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	ModerationVerdictTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgate_moderation_verdicts_total",
			Help: "Moderation verdicts by traffic direction and action",
		},
		[]string{"direction", "action"},
	)

	SimilarityScore = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptgate_similarity_score",
			Help:    "Similarity scores by method",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"method"},
	)

	GenerationLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptgate_generation_latency_ms",
			Help:    "Generation backend latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"provider"},
	)

	GenerationFailuresTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgate_generation_failures_total",
			Help: "Failed generation backend calls",
		},
		[]string{"provider"},
	)
)

// Handler serves the gateway registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
