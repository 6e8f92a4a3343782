// Package metrics exposes Prometheus HTTP metrics for the marketplace API.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP holds the collectors for one registry.
type HTTP struct {
	registry *prometheus.Registry
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	ledger   *prometheus.CounterVec
}

// NewHTTP registers the HTTP collectors plus process and Go runtime
// collectors on a fresh registry.
func NewHTTP(namespace string) *HTTP {
	m := &HTTP{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			// Ledger writes wait for a mined receipt, so the tail is long.
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"method", "route"}),
		ledger: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Ledger transactions submitted through the API, by outcome.",
		}, []string{"operation", "outcome"}),
	}
	m.registry.MustRegister(
		m.inFlight,
		m.requests,
		m.duration,
		m.ledger,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *HTTP) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the matched route
// template so path parameters do not explode label cardinality.
func (m *HTTP) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := strings.ToUpper(c.Request.Method)
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordLedgerTx counts a ledger write by operation name.
func (m *HTTP) RecordLedgerTx(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "mined"
	if err != nil {
		outcome = "failed"
	}
	m.ledger.WithLabelValues(operation, outcome).Inc()
}

// Registry exposes the underlying registry for tests.
func (m *HTTP) Registry() *prometheus.Registry {
	return m.registry
}
