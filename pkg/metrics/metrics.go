package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	TaskMutationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_mutation_count",
			Help: "Total number of task mutations",
		},
		[]string{"operation"}, // operation: create, update, delete
	)

	AuthAttemptCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempt_count",
			Help: "Total number of authentication attempts",
		},
		[]string{"method", "outcome"}, // method: register, login, google
	)

	TaskCacheLookupCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_cache_lookup_count",
			Help: "Total number of task list cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func IncrementTaskMutation(operation string) {
	TaskMutationCount.WithLabelValues(operation).Inc()
}

func IncrementAuthAttempt(method, outcome string) {
	AuthAttemptCount.WithLabelValues(method, outcome).Inc()
}

func IncrementTaskCacheLookup(result string) {
	TaskCacheLookupCount.WithLabelValues(result).Inc()
}
