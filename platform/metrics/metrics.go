// Package metrics exposes Prometheus collectors for the HTTP layer and the
// lead deactivation job.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	deactivationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_deactivation_runs_total",
			Help: "Deactivation job invocations by terminal outcome",
		},
		[]string{"outcome"},
	)

	leadsDeactivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_deactivated_total",
			Help: "Leads flipped to inactive by the deactivation job",
		},
	)

	deactivationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_deactivation_failures_total",
			Help: "Leads the deactivation job failed to update",
		},
	)
)

// GinMiddleware records request counts and latency keyed by the route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDeactivationRun counts one finished job run.
func RecordDeactivationRun(outcome string, deactivated, failed int) {
	deactivationRuns.WithLabelValues(outcome).Inc()
	leadsDeactivated.Add(float64(deactivated))
	deactivationFailures.Add(float64(failed))
}
