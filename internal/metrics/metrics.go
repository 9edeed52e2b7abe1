// Package metrics provides Prometheus metrics collection for the packaging planner.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Plan outcomes.
const (
	OutcomeStock  = "stock"
	OutcomeCustom = "custom"
	OutcomeError  = "error"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PlanCalculationsTotal counts packaging plans by outcome (stock, custom, error).
	PlanCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_calculations_total",
			Help: "Total number of packaging plan calculations",
		},
		[]string{"outcome"},
	)

	// PlanCalculationDuration tracks planner duration.
	PlanCalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plan_calculation_duration_seconds",
			Help:    "Packaging plan calculation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	// PlanWasteVolume observes the wasted volume of selected cartons.
	PlanWasteVolume = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plan_waste_volume",
			Help:    "Wasted carton volume per plan, in cubic configured units",
			Buckets: prometheus.ExponentialBuckets(1000, 10, 8),
		},
	)

	// AdvisorRequestsTotal counts advisory requests by result.
	AdvisorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_requests_total",
			Help: "Total number of advisory analysis requests",
		},
		[]string{"result"},
	)

	// AdvisorRequestDuration tracks outbound advisory call latency.
	AdvisorRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_request_duration_seconds",
			Help:    "Advisory request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)

	// InventorySize tracks the number of cartons in the last inventory snapshot.
	InventorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_boxes",
			Help: "Number of cartons in the current inventory snapshot",
		},
	)

	// CircuitBreakerState tracks breaker state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordPlanCalculation records metrics for one planner run.
func RecordPlanCalculation(duration time.Duration, outcome string, waste float64) {
	PlanCalculationDuration.Observe(duration.Seconds())
	PlanCalculationsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeError && waste >= 0 {
		PlanWasteVolume.Observe(waste)
	}
}

// RecordAdvisorRequest records one advisory call.
func RecordAdvisorRequest(duration time.Duration, result string) {
	AdvisorRequestDuration.Observe(duration.Seconds())
	AdvisorRequestsTotal.WithLabelValues(result).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// SetInventorySize records the size of the latest inventory snapshot.
func SetInventorySize(n int) {
	InventorySize.Set(float64(n))
}

// SetCircuitBreakerState records a breaker state transition.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
