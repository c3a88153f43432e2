package metrics

import "github.com/prometheus/client_golang/prometheus"

// Vision provider and analysis Prometheus metrics.
var (
	VisionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matcher",
			Name:      "vision_requests_total",
			Help:      "Total number of vision provider requests",
		},
		[]string{"model", "status"},
	)

	VisionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matcher",
			Name:      "vision_request_duration_seconds",
			Help:      "Vision provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	VisionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matcher",
			Name:      "vision_tokens_total",
			Help:      "Total vision provider tokens consumed",
		},
		[]string{"model", "type"},
	)

	AnalyzeFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matcher",
			Name:      "analyze_fallbacks_total",
			Help:      "Image analyses served from a synthetic fallback",
		},
		[]string{"reason"}, // "offline" / "provider_error" / "parse_error"
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matcher",
			Name:      "embedding_cache_total",
			Help:      "Product embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var visionMetricsRegistered bool

// RegisterVisionMetrics registers Prometheus vision metrics. Must be called once from main.
func RegisterVisionMetrics() {
	if visionMetricsRegistered {
		return
	}
	prometheus.MustRegister(VisionRequestsTotal)
	prometheus.MustRegister(VisionRequestDuration)
	prometheus.MustRegister(VisionTokensTotal)
	prometheus.MustRegister(AnalyzeFallbacksTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	visionMetricsRegistered = true
}
