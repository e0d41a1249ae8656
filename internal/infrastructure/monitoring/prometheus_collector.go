package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector owns a private registry so that several collectors
// (one per test server, say) can coexist in a process.
type PrometheusCollector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	guardDecisionsTotal *prometheus.CounterVec
	mutationsTotal      *prometheus.CounterVec
	loginsTotal         *prometheus.CounterVec
}

func NewPrometheusCollector() *PrometheusCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusCollector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midway_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "midway_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		guardDecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midway_guard_decisions_total",
			Help: "Route guard outcomes by policy",
		}, []string{"policy", "decision"}),

		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midway_entity_mutations_total",
			Help: "Successful writes by entity and operation",
		}, []string{"entity", "operation"}),

		loginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midway_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (p *PrometheusCollector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordGuardDecision(policy, decision string) {
	p.guardDecisionsTotal.WithLabelValues(policy, decision).Inc()
}

func (p *PrometheusCollector) RecordMutation(entity, operation string) {
	p.mutationsTotal.WithLabelValues(entity, operation).Inc()
}

func (p *PrometheusCollector) RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	p.loginsTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (p *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (p *PrometheusCollector) Registry() *prometheus.Registry {
	return p.registry
}
