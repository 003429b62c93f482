package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the portal client and the stub backend.
type Metrics struct {
	// Gateway metrics, labelled by route template (e.g. "GET /rfps/{id}")
	GatewayRequests *prometheus.CounterVec
	GatewayLatency  *prometheus.HistogramVec
	GatewayFailures *prometheus.CounterVec

	// Session lifecycle
	SessionLogins   *prometheus.CounterVec
	SessionLogouts  prometheus.Counter
	SessionRestores *prometheus.CounterVec

	// Screen loads by view and data source
	ScreenLoads *prometheus.CounterVec

	// Stub backend request handling
	StubRequests *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		GatewayRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_gateway_requests_total",
				Help: "Total number of backend requests issued by the gateway",
			},
			[]string{"route", "status"},
		),
		GatewayLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_gateway_request_duration_seconds",
				Help:    "Backend request latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"route"},
		),
		GatewayFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_gateway_failures_total",
				Help: "Backend requests that failed, by failure kind (status, transport, decode)",
			},
			[]string{"route", "kind"},
		),

		SessionLogins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_session_logins_total",
				Help: "Login and signup attempts by mode and outcome",
			},
			[]string{"mode", "success"},
		),
		SessionLogouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_session_logouts_total",
				Help: "Total number of logouts",
			},
		),
		SessionRestores: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_session_restores_total",
				Help: "Session restores at startup by outcome",
			},
			[]string{"outcome"},
		),

		ScreenLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_screen_loads_total",
				Help: "Screen data loads by view, data source and outcome",
			},
			[]string{"view", "source", "success"},
		),

		StubRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_stub_requests_total",
				Help: "Requests served by the stub backend",
			},
			[]string{"route", "status"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// Discard returns metrics registered on a throwaway registry.
func Discard() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// RecordLogin counts a login or signup attempt. mode is "demo" or "remote".
func (m *Metrics) RecordLogin(mode string, success bool) {
	m.SessionLogins.WithLabelValues(mode, boolLabel(success)).Inc()
}

// RecordScreenLoad counts one screen load.
func (m *Metrics) RecordScreenLoad(view, source string, success bool) {
	m.ScreenLoads.WithLabelValues(view, source, boolLabel(success)).Inc()
}

// RecordError counts a coded error against the component that saw it.
func (m *Metrics) RecordError(code, component string) {
	if code == "" {
		code = "uncoded"
	}
	m.Errors.WithLabelValues(code, component).Inc()
}
