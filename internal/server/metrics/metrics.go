// Package metrics exposes the server's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/saga"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lostfound"

type Metrics struct {
	registry *prometheus.Registry

	sagaRuns         *prometheus.CounterVec
	detailFailures   *prometheus.CounterVec
	claimTransitions *prometheus.CounterVec
}

// New registers the counters, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		sagaRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_runs_total",
			Help:      "Cross-store writes by saga and outcome.",
		}, []string{"saga", "outcome"}),
		detailFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_resolution_failures_total",
			Help:      "Detail documents that could not be resolved while listing.",
		}, []string{"collection"}),
		claimTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_transitions_total",
			Help:      "Claims moved to a new status.",
		}, []string{"status"}),
	}
	reg.MustRegister(
		m.sagaRuns, m.detailFailures, m.claimTransitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

var _ saga.Observer = (*Metrics)(nil)

func (m *Metrics) SagaFinished(name string, outcome saga.Outcome) {
	m.sagaRuns.WithLabelValues(name, string(outcome)).Inc()
}

func (m *Metrics) DetailResolutionFailed(collection string) {
	m.detailFailures.WithLabelValues(collection).Inc()
}

func (m *Metrics) ClaimTransitioned(status string, n int) {
	m.claimTransitions.WithLabelValues(status).Add(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
