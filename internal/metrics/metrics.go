// Package metrics defines the Prometheus metrics exported by the portal.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeMissing     = "missing_credentials"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
)

// Metrics contains the portal's counters. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	LoginAttempts  *prometheus.CounterVec
	Logouts        prometheus.Counter
	Registrations  *prometheus.CounterVec
	GuardDecisions *prometheus.CounterVec
}

// New creates a registry with Go and process collectors plus portal metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_logouts_total",
			Help: "Logout requests",
		}),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_registrations_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		GuardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_guard_decisions_total",
				Help: "Protected route decisions",
			},
			[]string{"decision"},
		),
	}

	reg.MustRegister(m.LoginAttempts, m.Logouts, m.Registrations, m.GuardDecisions)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LoginAttempt records a login outcome
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// Logout records a logout
func (m *Metrics) Logout() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}

// Registration records a registration outcome
func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

// Guard records whether a protected route was served or redirected
func (m *Metrics) Guard(allowed bool) {
	if m == nil {
		return
	}
	decision := "redirect"
	if allowed {
		decision = "allow"
	}
	m.GuardDecisions.WithLabelValues(decision).Inc()
}
