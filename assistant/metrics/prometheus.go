// Package metrics provides Prometheus metrics export for the assistant.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports assistant metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Chat metrics
	chatLatency  *prometheus.HistogramVec
	chatRequests *prometheus.CounterVec

	// Operation metrics
	operationCalls   *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	guardrailDenials *prometheus.CounterVec

	// LLM metrics
	llmTokensUsed *prometheus.CounterVec
	llmLatency    *prometheus.HistogramVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.chatLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lumen",
			Subsystem: "assistant",
			Name:      "chat_latency_seconds",
			Help:      "Chat turn latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"mode"},
	)

	e.chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lumen",
			Subsystem: "assistant",
			Name:      "chat_requests_total",
			Help:      "Total number of chat turns",
		},
		[]string{"mode", "status"},
	)

	e.operationCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lumen",
			Subsystem: "assistant",
			Name:      "operation_calls_total",
			Help:      "Total number of operation invocations",
		},
		[]string{"operation", "status"},
	)

	e.operationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lumen",
			Subsystem: "assistant",
			Name:      "operation_latency_seconds",
			Help:      "Operation invocation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"operation"},
	)

	e.guardrailDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lumen",
			Subsystem: "assistant",
			Name:      "guardrail_denials_total",
			Help:      "Total number of guardrail denials",
		},
		[]string{"operation", "rule"},
	)

	e.llmTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lumen",
			Subsystem: "assistant",
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "token_type"},
	)

	e.llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lumen",
			Subsystem: "assistant",
			Name:      "llm_latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"model"},
	)

	registry.MustRegister(
		e.chatLatency,
		e.chatRequests,
		e.operationCalls,
		e.operationLatency,
		e.guardrailDenials,
		e.llmTokensUsed,
		e.llmLatency,
	)

	return e
}

// RecordChatRequest records one chat turn.
func (e *PrometheusExporter) RecordChatRequest(mode string, latency time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	e.chatRequests.WithLabelValues(mode, status).Inc()
	e.chatLatency.WithLabelValues(mode).Observe(latency.Seconds())
}

// RecordOperationCall records one operation invocation.
func (e *PrometheusExporter) RecordOperationCall(operation string, latency time.Duration, status string) {
	e.operationCalls.WithLabelValues(operation, status).Inc()
	e.operationLatency.WithLabelValues(operation).Observe(latency.Seconds())
}

// RecordGuardrailDenial records a guardrail denying an operation.
func (e *PrometheusExporter) RecordGuardrailDenial(operation, rule string) {
	e.guardrailDenials.WithLabelValues(operation, rule).Inc()
}

// RecordLLMTokens records LLM token usage.
func (e *PrometheusExporter) RecordLLMTokens(model, tokenType string, count int) {
	e.llmTokensUsed.WithLabelValues(model, tokenType).Add(float64(count))
}

// RecordLLMLatency records LLM request latency.
func (e *PrometheusExporter) RecordLLMLatency(model string, latency time.Duration) {
	e.llmLatency.WithLabelValues(model).Observe(latency.Seconds())
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// GetRegistry returns the Prometheus registry.
func (e *PrometheusExporter) GetRegistry() *prometheus.Registry {
	return e.registry
}
