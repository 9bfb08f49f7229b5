// Package metrics exposes Prometheus collectors for the analysis service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "futsal_ai"

// Recorder owns a private registry so tests can build as many as they need.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	llmRequests   *prometheus.CounterVec
	llmDuration   *prometheus.HistogramVec
	llmTokens     *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	extractions   *prometheus.CounterVec
	batchPlayers  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// NewRecorder registers every collector on a private registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		llmRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "LLM completion requests by provider and outcome",
		}, []string{"provider", "outcome"}),
		llmDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Latency of LLM completion requests",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
		llmTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by LLM completions",
		}, []string{"provider", "direction"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_cache_lookups_total",
			Help:      "LLM response cache lookups by result",
		}, []string{"result"}),
		extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Structured response extractions by layout and outcome",
		}, []string{"layout", "outcome"}),
		batchPlayers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_players_total",
			Help:      "Players handled in team batches by status",
		}, []string{"status"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveLLMCall counts a provider call and records its latency
func (r *Recorder) ObserveLLMCall(provider, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.llmRequests.WithLabelValues(provider, outcome).Inc()
	r.llmDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// AddLLMTokens accumulates prompt and completion tokens
func (r *Recorder) AddLLMTokens(provider string, input, output int) {
	if r == nil {
		return
	}
	r.llmTokens.WithLabelValues(provider, "input").Add(float64(input))
	r.llmTokens.WithLabelValues(provider, "output").Add(float64(output))
}

// RecordCacheLookup counts completion cache hits and misses
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordExtraction counts response extraction outcomes per layout
func (r *Recorder) RecordExtraction(layout, outcome string) {
	if r == nil {
		return
	}
	r.extractions.WithLabelValues(layout, outcome).Inc()
}

// RecordBatchPlayer counts per-player results of team batches
func (r *Recorder) RecordBatchPlayer(status string) {
	if r == nil {
		return
	}
	r.batchPlayers.WithLabelValues(status).Inc()
}

// ObserveHTTPRequest records one served request
func (r *Recorder) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDurations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
