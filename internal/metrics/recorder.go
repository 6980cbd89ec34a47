// Package metrics provides Prometheus counters and histograms for
// completion calls and structuring outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrreku/ai-studyagent/internal/providers"
)

const namespace = "studyagent"

// Structure outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
)

// Recorder owns a Prometheus registry and the collectors registered on it.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	completions      *prometheus.CounterVec
	completionTime   *prometheus.HistogramVec
	tokens           *prometheus.CounterVec
	costUSD          *prometheus.CounterVec
	parseStrategies  *prometheus.CounterVec
	structureResults *prometheus.CounterVec
	structureTime    prometheus.Histogram
}

// NewRecorder creates a recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_completions_total",
			Help:      "Completion calls by provider, prompt key and status.",
		}, []string{"provider", "prompt_key", "status"}),
		completionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_completion_seconds",
			Help:      "Completion call latency.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		}, []string{"prompt_key"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by direction.",
		}, []string{"provider", "direction"}),
		costUSD: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_cost_usd_total",
			Help:      "Reported completion cost in USD.",
		}, []string{"provider"}),
		parseStrategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "json_extraction_total",
			Help:      "JSON extraction attempts by winning strategy (or not_found).",
		}, []string{"strategy"}),
		structureResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structure_results_total",
			Help:      "Structuring runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		structureTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "structure_seconds",
			Help:      "End-to-end structuring latency.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.completions,
		r.completionTime,
		r.tokens,
		r.costUSD,
		r.parseStrategies,
		r.structureResults,
		r.structureTime,
	)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordLLMCall records one completion call. result may be nil when the call
// failed before the provider answered.
func (r *Recorder) RecordLLMCall(promptKey string, result *providers.ChatResult, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil || result == nil || !result.Success {
		status = "error"
	}
	provider := "unknown"
	if result != nil && result.Provider != "" {
		provider = result.Provider
	}
	r.completions.WithLabelValues(provider, promptKey, status).Inc()
	if result == nil {
		return
	}
	r.completionTime.WithLabelValues(promptKey).Observe(result.ExecutionTime.Seconds())
	r.tokens.WithLabelValues(provider, "input").Add(float64(result.PromptTokens))
	r.tokens.WithLabelValues(provider, "output").Add(float64(result.CompletionTokens))
	if result.CostUSD > 0 {
		r.costUSD.WithLabelValues(provider).Add(result.CostUSD)
	}
}

// RecordExtraction counts which extraction strategy recovered JSON. Pass
// "not_found" when none did.
func (r *Recorder) RecordExtraction(strategy string) {
	if r == nil {
		return
	}
	r.parseStrategies.WithLabelValues(strategy).Inc()
}

// RecordStructure records a finished structuring run. outcome is
// OutcomeSuccess, OutcomeFallback or an error kind.
func (r *Recorder) RecordStructure(mode, outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.structureResults.WithLabelValues(mode, outcome).Inc()
	r.structureTime.Observe(seconds)
}
