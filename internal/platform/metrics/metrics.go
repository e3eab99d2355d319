// Package metrics holds the prometheus collectors for the verification pipeline
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "factlens"

// Metrics owns a private registry so tests can build as many as they like
// A nil *Metrics is valid and records nothing
type Metrics struct {
	registry *prom.Registry

	WorkerOutcomes   *prom.CounterVec
	WorkerDuration   *prom.HistogramVec
	StageFallbacks   *prom.CounterVec
	PipelineDuration *prom.HistogramVec
	ProviderCalls    *prom.CounterVec
}

// New registers every collector on a fresh registry
// withRuntime adds the go and process collectors, which the api binary wants and tests do not
func New(withRuntime bool) *Metrics {
	reg := prom.NewRegistry()
	m := &Metrics{
		registry: reg,
		WorkerOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "outcomes_total",
			Help:      "Worker invocations by terminal status",
		}, []string{"worker", "status"}),
		WorkerDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "duration_seconds",
			Help:      "Wall time of a worker invocation after gate admission",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120, 180},
		}, []string{"worker"}),
		StageFallbacks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "fallbacks_total",
			Help:      "Sentinel results produced by the router or aggregator",
		}, []string{"stage", "reason"}),
		PipelineDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End to end analysis time",
			Buckets:   prom.ExponentialBuckets(0.5, 2, 10),
		}, []string{"conclusion"}),
		ProviderCalls: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Reasoning provider attempts by result",
		}, []string{"provider", "result"}),
	}
	reg.MustRegister(m.WorkerOutcomes, m.WorkerDuration, m.StageFallbacks, m.PipelineDuration, m.ProviderCalls)
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

// Handler serves the registry in the exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prom.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveWorker records one worker outcome; d is ignored for skipped workers
func (m *Metrics) ObserveWorker(worker, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.WorkerOutcomes.WithLabelValues(worker, status).Inc()
	if status != "skipped" {
		m.WorkerDuration.WithLabelValues(worker).Observe(d.Seconds())
	}
}

// Fallback counts a sentinel result for stage
func (m *Metrics) Fallback(stage, reason string) {
	if m == nil {
		return
	}
	m.StageFallbacks.WithLabelValues(stage, reason).Inc()
}

// ObservePipeline records a finished analysis
func (m *Metrics) ObservePipeline(conclusion string, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineDuration.WithLabelValues(conclusion).Observe(d.Seconds())
}

// ProviderCall counts one provider attempt
func (m *Metrics) ProviderCall(provider, result string) {
	if m == nil {
		return
	}
	m.ProviderCalls.WithLabelValues(provider, result).Inc()
}
