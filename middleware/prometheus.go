package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path", "code"},
	)

	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	requestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	errorRate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "error_rate_total",
			Help: "Total number of HTTP 5xx responses",
		},
		[]string{"method", "path", "code"},
	)

	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_store_operations_total",
			Help: "Key-value store operations by backend, operation and result",
		},
		[]string{"backend", "op", "result"},
	)

	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profile_store_operation_duration_seconds",
			Help:    "Duration of key-value store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"backend", "op"},
	)
)

// shouldCollectMetrics excludes probe and scrape endpoints
func shouldCollectMetrics(path string) bool {
	for _, skipPath := range []string{"/health", "/ready", "/metrics"} {
		if strings.HasPrefix(path, skipPath) {
			return false
		}
	}
	return true
}

// PrometheusMiddleware records request metrics labelled by route template
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shouldCollectMetrics(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		requestsInFlight.WithLabelValues(method, path).Inc()
		defer requestsInFlight.WithLabelValues(method, path).Dec()

		c.Next()

		code := strconv.Itoa(c.Writer.Status())
		requestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(method, path, code).Inc()
		if c.Writer.Status() >= 500 {
			errorRate.WithLabelValues(method, path, code).Inc()
		}
	}
}

// ObserveStoreOperation records one key-value store call.
// A missing key counts as "miss", not as an error.
func ObserveStoreOperation(backend, op string, started time.Time, result string) {
	storeOperations.WithLabelValues(backend, op, result).Inc()
	storeDuration.WithLabelValues(backend, op).Observe(time.Since(started).Seconds())
}
