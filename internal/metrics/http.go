// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "course_search"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPPanicsTotal counts handler panics turned into 500 responses.
	HTTPPanicsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panics_total",
			Help:      "Handler panics recovered by the HTTP server",
		},
		[]string{"path"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(HTTPPanicsTotal)
}

// Middleware records HTTP request duration and count.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not written the response yet
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Route pattern, not raw path, keeps label cardinality bounded
		path := RoutePath(c)
		code := strconv.Itoa(status)

		httpRequestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Method(), path, code).Inc()

		return err
	}
}

// RoutePath returns the matched route pattern, or "unknown" outside a route.
func RoutePath(c *fiber.Ctx) string {
	return normalizePath(c.Route().Path)
}

func normalizePath(path string) string {
	if path == "" || path == "/" {
		return "unknown"
	}
	return path
}
