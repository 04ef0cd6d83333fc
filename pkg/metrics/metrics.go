// Package metrics exposes Prometheus collectors for the chat pipeline.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// ChatRequests counts chat turns by outcome ("success" or the upstream
	// error type).
	ChatRequests *prometheus.CounterVec

	// TokensUsed counts total LLM tokens consumed.
	TokensUsed prometheus.Counter

	// QualityScore observes the overall quality score of scored responses.
	QualityScore prometheus.Histogram

	// UpstreamLatency observes LLM call latency in seconds.
	UpstreamLatency prometheus.Histogram
}

// New creates and registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat requests by outcome.",
		}, []string{"outcome"}),
		TokensUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "llm_tokens_used_total",
			Help: "Total LLM tokens consumed.",
		}),
		QualityScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "response_quality_score",
			Help:    "Overall quality score of assistant responses.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		UpstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM API call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(m.ChatRequests, m.TokensUsed, m.QualityScore, m.UpstreamLatency)
	return m
}

// ObserveSuccess records one successful chat turn.
func (m *Metrics) ObserveSuccess(totalTokens, qualityScore int, responseTimeMs int64) {
	m.ChatRequests.WithLabelValues("success").Inc()
	m.TokensUsed.Add(float64(totalTokens))
	m.QualityScore.Observe(float64(qualityScore))
	m.UpstreamLatency.Observe(float64(responseTimeMs) / 1000)
}

// ObserveFailure records one failed chat turn by upstream error type.
func (m *Metrics) ObserveFailure(errorType string, responseTimeMs int64) {
	m.ChatRequests.WithLabelValues(errorType).Inc()
	m.UpstreamLatency.Observe(float64(responseTimeMs) / 1000)
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
