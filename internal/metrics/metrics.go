package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter is satisfied by prometheus.Counter; components depend on this
// instead of the client library.
type Counter interface {
	Inc()
}

type nopCounter struct{}

func (nopCounter) Inc() {}

var NopCounter Counter = nopCounter{}

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	ActiveSessions       prometheus.Gauge
	AllocationClamps     prometheus.Counter
	ComparisonsComputed  prometheus.Counter
	StepTransitions      *prometheus.CounterVec
	SubmissionsTotal     *prometheus.CounterVec
	FeeTableLookupMisses prometheus.Counter
}

func New(namespace string) (*Metrics, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Calculator sessions currently held in memory.",
		}),
		AllocationClamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "clamps_total",
			Help:      "Allocation writes reduced to the remaining budget.",
		}),
		ComparisonsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comparison",
			Name:      "computed_total",
			Help:      "Fee comparisons recomputed.",
		}),
		StepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stepgate",
			Name:      "transitions_total",
			Help:      "Wizard navigation attempts by outcome.",
		}, []string{"outcome"}),
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submission",
			Name:      "total",
			Help:      "Calculator submissions by outcome.",
		}, []string{"outcome"}),
		FeeTableLookupMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comparison",
			Name:      "fee_lookup_misses_total",
			Help:      "Allocated assets with no traditional fee entry.",
		}),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ActiveSessions,
		m.AllocationClamps,
		m.ComparisonsComputed,
		m.StepTransitions,
		m.SubmissionsTotal,
		m.FeeTableLookupMisses,
	)

	return m, nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
