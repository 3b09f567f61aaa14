// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation. Metrics() measures HTTP
// traffic with bounded label cardinality:
//
//   - method: HTTP verb
//   - path:   the registered Gin route (e.g. /rides/:id), or "unmatched"
//   - status: numeric status code as a string
//
// Ride-level counters (classified errors, created rides, idempotent replays)
// are recorded by the handlers through the exported Record* helpers.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedPath labels requests that did not hit a registered route, so
// arbitrary 404 URLs cannot blow up label cardinality.
const unmatchedPath = "unmatched"

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// status omitted to keep histogram series low.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// Ride payloads are small; buckets stop at 1MiB.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				100, 250, 500, 1 << 10, 4 << 10, 16 << 10,
				64 << 10, 256 << 10, 1 << 20,
			},
		},
		[]string{"method", "path"},
	)

	ridesErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rides_errors_total",
			Help: "Error responses by error_code (VALIDATION_ERROR, RIDES_NOT_FOUND_ERROR, SERVER_ERROR, ...).",
		},
		[]string{"error_code"},
	)

	ridesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rides_created_total",
			Help: "Rides inserted through POST /rides.",
		},
	)

	ridesReplayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rides_idempotent_replays_total",
			Help: "POST /rides requests answered from a stored idempotency record.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize,
		ridesErrors, ridesCreated, ridesReplayed)
}

// RecordError counts one error response carrying code.
func RecordError(code string) { ridesErrors.WithLabelValues(code).Inc() }

// RecordCreated counts one inserted ride.
func RecordCreated() { ridesCreated.Inc() }

// RecordReplay counts one idempotent replay.
func RecordReplay() { ridesReplayed.Inc() }

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		method := c.Request.Method

		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written (e.g. 304).
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
