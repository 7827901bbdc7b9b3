// Package metrics exposes Prometheus counters for role simulation.
//
// A Metrics value owns a private registry. Every method is safe on a nil
// receiver, so components can take an optional *Metrics without nil checks.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rolesim"

// Guard outcomes recorded by GuardDecision.
const (
	OutcomeGranted = "granted"
	OutcomeDenied  = "denied"
)

// Metrics collects role simulation counters.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	RoleSwitches       *prometheus.CounterVec
	RoleSwitchFailures prometheus.Counter
	RoleClears         prometheus.Counter
	GuardDecisions     *prometheus.CounterVec
	SimulatedResponses *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the counters and registers them on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RoleSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_switches_total",
			Help:      "Successful simulated role switches by role id.",
		}, []string{"role"}),
		RoleSwitchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_switch_failures_total",
			Help:      "Role switches rejected because the role id is unknown.",
		}),
		RoleClears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_clears_total",
			Help:      "Times the simulated role was cleared.",
		}),
		GuardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Route guard decisions by outcome.",
		}, []string{"outcome"}),
		SimulatedResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_responses_total",
			Help:      "Synthetic API responses produced by the interceptor by status code.",
		}, []string{"code"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	registry.MustRegister(
		m.RoleSwitches,
		m.RoleSwitchFailures,
		m.RoleClears,
		m.GuardDecisions,
		m.SimulatedResponses,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return m
}

// RoleSwitched counts a successful switch to roleID.
func (m *Metrics) RoleSwitched(roleID string) {
	if m == nil {
		return
	}
	m.RoleSwitches.WithLabelValues(roleID).Inc()
}

// RoleSwitchFailed counts a rejected switch.
func (m *Metrics) RoleSwitchFailed() {
	if m == nil {
		return
	}
	m.RoleSwitchFailures.Inc()
}

// RoleCleared counts a clear.
func (m *Metrics) RoleCleared() {
	if m == nil {
		return
	}
	m.RoleClears.Inc()
}

// GuardDecision counts a guard outcome.
func (m *Metrics) GuardDecision(granted bool) {
	if m == nil {
		return
	}
	outcome := OutcomeDenied
	if granted {
		outcome = OutcomeGranted
	}
	m.GuardDecisions.WithLabelValues(outcome).Inc()
}

// SimulatedResponse counts a synthetic response with the given status code.
func (m *Metrics) SimulatedResponse(code int) {
	if m == nil {
		return
	}
	m.SimulatedResponses.WithLabelValues(strconv.Itoa(code)).Inc()
}

// Registerer exposes the private registry for extra collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request counts and durations per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := routePattern(r)
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
