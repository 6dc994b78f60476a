package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	recommendationsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Count of recommendation responses by request kind.",
		},
		[]string{"kind"},
	)

	recommendationLogFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_log_failures_total",
			Help: "Count of recommendation decisions that could not be persisted.",
		},
	)

	// RecommendLatency is observed by the HTTP handler around a full ranking
	// request.
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of recommendation requests",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		recommendationsServed,
		recommendationLogFailures,
		RecommendLatency,
	)
}
