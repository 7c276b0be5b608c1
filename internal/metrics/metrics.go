package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captable_api_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "captable_api_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "captable_api_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captable_calculations_total",
			Help: "Total number of cap table calculations by outcome",
		},
		[]string{"status"},
	)

	CalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "captable_calculation_duration_seconds",
			Help:    "Duration of cap table calculations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		},
	)

	CalculationRounds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "captable_calculation_rounds",
			Help:    "Number of rounds per calculated scenario",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		},
	)

	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captable_store_operations_total",
			Help: "Total number of scenario store operations",
		},
		[]string{"operation", "status"},
	)
)

// Middleware returns a gin middleware that records HTTP metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		c.Next()

		// Use the route pattern if available, otherwise use the path
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordCalculation records metrics for one engine run. status is one of
// "success", "invalid" or "error".
func RecordCalculation(duration time.Duration, rounds int, status string) {
	CalculationsTotal.WithLabelValues(status).Inc()
	CalculationDuration.Observe(duration.Seconds())
	CalculationRounds.Observe(float64(rounds))
}

// RecordStoreOperation records metrics for a store call.
func RecordStoreOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}
