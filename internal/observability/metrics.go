// Package observability provides Prometheus metrics for the service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestsTotal          *prometheus.CounterVec
	requestDuration        *prometheus.HistogramVec
	plansComputed          prometheus.Counter
	planSize               prometheus.Histogram
	conservationViolations prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "divvy_requests_total",
				Help: "Total HTTP requests by route and status class.",
			},
			[]string{"route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "divvy_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		plansComputed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "divvy_settlement_plans_total",
				Help: "Total settlement plans computed.",
			},
		),
		planSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "divvy_settlement_plan_size",
				Help:    "Number of transfers per computed settlement plan.",
				Buckets: prometheus.LinearBuckets(0, 1, 12),
			},
		),
		conservationViolations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "divvy_conservation_violations_total",
				Help: "Ledgers whose balances failed to sum to zero. Always a data-integrity bug upstream.",
			},
		),
	}
}

// RecordRequest records one HTTP request.
func (m *Metrics) RecordRequest(route, status string, d time.Duration) {
	m.requestsTotal.WithLabelValues(route, status).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordPlan records a successfully computed settlement plan.
func (m *Metrics) RecordPlan(size int) {
	m.plansComputed.Inc()
	m.planSize.Observe(float64(size))
}

// IncrConservationViolation counts a conservation failure.
func (m *Metrics) IncrConservationViolation() {
	m.conservationViolations.Inc()
}
