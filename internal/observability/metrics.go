// Package observability exposes Prometheus counters for the dashboard
// pipeline. The /metrics endpoint on the HTTP server serves the default
// registry.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(func() *Metrics { return NewMetrics(prometheus.DefaultRegisterer) }),
)

// Metrics counts pipeline outcomes. A nil *Metrics is valid and records
// nothing, which keeps unit tests free of registry setup.
type Metrics struct {
	dashboardsGenerated prometheus.Counter
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	modelInvocations    prometheus.Counter
	modelFailures       prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dashboardsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credit_dashboards_generated_total",
			Help: "Dashboards generated and persisted as snapshots.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credit_dashboard_cache_hits_total",
			Help: "Dashboard requests served from a stored snapshot.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credit_dashboard_cache_misses_total",
			Help: "Dashboard requests that required a model invocation.",
		}),
		modelInvocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credit_model_invocations_total",
			Help: "Calls made to the model provider.",
		}),
		modelFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credit_model_failures_total",
			Help: "Model calls that failed or returned unusable output.",
		}),
	}

	reg.MustRegister(
		m.dashboardsGenerated,
		m.cacheHits,
		m.cacheMisses,
		m.modelInvocations,
		m.modelFailures,
	)
	return m
}

func (m *Metrics) DashboardGenerated() {
	if m != nil {
		m.dashboardsGenerated.Inc()
	}
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) ModelInvocation() {
	if m != nil {
		m.modelInvocations.Inc()
	}
}

func (m *Metrics) ModelFailure() {
	if m != nil {
		m.modelFailures.Inc()
	}
}
