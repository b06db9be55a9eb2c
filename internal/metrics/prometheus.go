package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the grading service

var (
	// Provider metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_provider_requests_total",
			Help: "Total number of outbound provider requests",
		},
		[]string{"provider", "status"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grader_provider_request_duration_seconds",
			Help:    "Duration of provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	ProviderRateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_provider_rate_limited_total",
			Help: "Total number of rate-limit responses per provider",
		},
		[]string{"provider"},
	)

	ProviderFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_provider_fetches_total",
			Help: "Total number of provider fetches by league and status",
		},
		[]string{"provider", "league", "status"},
	)

	ProviderOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_provider_outcomes_total",
			Help: "Total number of completed games returned per provider",
		},
		[]string{"provider", "league"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grader_circuit_breaker_state",
			Help: "Circuit breaker state per provider (0 closed, 1 half-open, 2 open)",
		},
		[]string{"provider"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grader_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "grader_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "grader_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Grading metrics
	GradeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_runs_total",
			Help: "Total number of grading runs",
		},
		[]string{"status"},
	)

	GradeRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grader_run_duration_seconds",
			Help:    "Duration of grading runs in seconds",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60},
		},
	)

	PicksGradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_picks_graded_total",
			Help: "Total number of graded picks by status",
		},
		[]string{"status"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "grader_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "grader_last_successful_run_timestamp",
			Help: "Timestamp of last successful grading run",
		},
	)
)

// RecordProviderRequest records an outbound provider request
func RecordProviderRequest(provider, status string, duration float64) {
	ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration)
}

// RecordRateLimited records a rate-limit response from a provider
func RecordRateLimited(provider string) {
	ProviderRateLimitedTotal.WithLabelValues(provider).Inc()
}

// RecordFetch records the result of one provider fetch for a league
func RecordFetch(provider, league, status string, outcomes int) {
	ProviderFetchesTotal.WithLabelValues(provider, league, status).Inc()
	if outcomes > 0 {
		ProviderOutcomesTotal.WithLabelValues(provider, league).Add(float64(outcomes))
	}
}

// SetBreakerState records a circuit breaker transition
func SetBreakerState(provider string, state int) {
	CircuitBreakerState.WithLabelValues(provider).Set(float64(state))
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordGradeRun records a grading run
func RecordGradeRun(status string, duration float64) {
	GradeRunsTotal.WithLabelValues(status).Inc()
	GradeRunDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordGradedPick records one graded pick
func RecordGradedPick(status string) {
	PicksGradedTotal.WithLabelValues(status).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
