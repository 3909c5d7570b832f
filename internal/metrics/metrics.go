package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the auth counters on their own registry.
type Metrics struct {
	registry      *prometheus.Registry
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
}

// New registers the shop collectors plus the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coffeeshop_registrations_total",
			Help: "Account registrations by role and outcome",
		}, []string{"role", "outcome"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coffeeshop_logins_total",
			Help: "Login attempts by role and outcome (success or failure kind)",
		}, []string{"role", "outcome"}),
	}
	m.registry = reg
	reg.MustRegister(
		m.Registrations,
		m.Logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
