// Package metrics registers and exposes Prometheus metrics for the
// dashboard backend.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the service. All methods are
// nil-safe so test wiring can skip metrics entirely.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec // labels: route, status
	HTTPRequestDur      *prometheus.HistogramVec
	ProviderErrorsTotal *prometheus.CounterVec // labels: call
	IndicatorComputeDur prometheus.Histogram
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		}, []string{"route", "status"}),
		HTTPRequestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ProviderErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_provider_errors_total",
			Help: "Market-data provider call failures, by call",
		}, []string{"call"}),
		IndicatorComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_indicator_compute_duration_seconds",
			Help:    "Time spent computing SMA/EMA/RSI per dashboard request",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDur,
		m.ProviderErrorsTotal,
		m.IndicatorComputeDur,
	)

	return m
}

// IncProviderError counts one failed provider call.
func (m *Metrics) IncProviderError(call string) {
	if m == nil {
		return
	}
	m.ProviderErrorsTotal.WithLabelValues(call).Inc()
}

// ObserveIndicatorCompute records one indicator computation pass.
func (m *Metrics) ObserveIndicatorCompute(d time.Duration) {
	if m == nil {
		return
	}
	m.IndicatorComputeDur.Observe(d.Seconds())
}

// GinMiddleware records request counts and latency per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDur.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
