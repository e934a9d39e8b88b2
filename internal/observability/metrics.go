// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRateLimited     *prometheus.CounterVec
	HTTPNotModified     prometheus.Counter

	// Computation metrics
	ComputationRunsTotal *prometheus.CounterVec
	ComputationDuration  *prometheus.HistogramVec
	CandlesProcessed     prometheus.Counter
	TradesSimulated      prometheus.Counter
	SymbolsFailed        prometheus.Counter
	ReportsGenerated     *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulReport prometheus.Gauge
	StartTime            prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "webaggregator"
	}

	m := &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HTTPRateLimited: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the compute rate limiter",
		}, []string{"route"}),
		HTTPNotModified: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "not_modified_total",
			Help:      "Total number of responses answered with 304 from a matching ETag",
		}),

		// Computation metrics
		ComputationRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "computation",
			Name:      "runs_total",
			Help:      "Total number of computations by kind and status",
		}, []string{"kind", "status"}),
		ComputationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "computation",
			Name:      "duration_seconds",
			Help:      "Computation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"kind"}),
		CandlesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "computation",
			Name:      "candles_processed_total",
			Help:      "Total number of candles fed into computations",
		}),
		TradesSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "computation",
			Name:      "trades_simulated_total",
			Help:      "Total number of fixed risk:reward trades simulated",
		}),
		SymbolsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "computation",
			Name:      "symbols_failed_total",
			Help:      "Total number of symbols excluded from rankings due to bad data",
		}),
		ReportsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of report files generated by format",
		}, []string{"format"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulReport: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_report_timestamp",
			Help:      "Unix timestamp of last successful scheduled report",
		}),
		StartTime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "start_time_seconds",
			Help:      "Unix timestamp of process start",
		}),
	}

	m.StartTime.Set(float64(time.Now().Unix()))
	return m
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(route, method, status string, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordRateLimited increments the rate limited counter for a route.
func RecordRateLimited(route string) {
	DefaultMetrics.HTTPRateLimited.WithLabelValues(route).Inc()
}

// RecordNotModified increments the 304 counter.
func RecordNotModified() {
	DefaultMetrics.HTTPNotModified.Inc()
}

// RecordComputation records a computation run.
func RecordComputation(kind, status string, durationSeconds float64, candles int) {
	DefaultMetrics.ComputationRunsTotal.WithLabelValues(kind, status).Inc()
	DefaultMetrics.ComputationDuration.WithLabelValues(kind).Observe(durationSeconds)
	if candles > 0 {
		DefaultMetrics.CandlesProcessed.Add(float64(candles))
	}
}

// RecordTradesSimulated adds to the simulated trades counter.
func RecordTradesSimulated(n int) {
	DefaultMetrics.TradesSimulated.Add(float64(n))
}

// RecordSymbolFailed increments the failed symbols counter.
func RecordSymbolFailed() {
	DefaultMetrics.SymbolsFailed.Inc()
}

// RecordReportGenerated increments the reports counter for a format.
func RecordReportGenerated(format string) {
	DefaultMetrics.ReportsGenerated.WithLabelValues(format).Inc()
}

// RecordReportRun marks a successful scheduled report run.
func RecordReportRun() {
	DefaultMetrics.LastSuccessfulReport.Set(float64(time.Now().Unix()))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
