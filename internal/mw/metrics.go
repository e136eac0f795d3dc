package mw

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the HTTP layer.
type Metrics struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	approvals *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dorm",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dorm",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		approvals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dorm",
			Name:      "approvals_total",
			Help:      "Approval attempts by outcome (ok, warning or an error kind).",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.requests, m.durations, m.approvals)
	return m
}

// Handler records request counts and latencies keyed by the matched route.
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.durations.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveApproval counts one approval attempt.
func (m *Metrics) ObserveApproval(outcome string) {
	m.approvals.WithLabelValues(outcome).Inc()
}
