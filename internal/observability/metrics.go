// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcircle_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brewcircle_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// StorageTxRetries counts transaction retries caused by write conflicts,
	// labeled by the logical operation being retried.
	StorageTxRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcircle_storage_tx_retries_total",
		Help: "Total number of storage transaction retries by operation",
	}, []string{"operation"})

	// StorageTxExhausted counts transactions that exhausted their retry budget.
	StorageTxExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcircle_storage_tx_exhausted_total",
		Help: "Total number of storage transactions that exhausted retries",
	}, []string{"operation"})

	// FriendRequestsTotal counts friend request outcomes.
	FriendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcircle_friend_requests_total",
		Help: "Total number of friend request operations by outcome",
	}, []string{"outcome"})

	// VisitsCreatedTotal counts created visits by kind (solo/shared).
	VisitsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcircle_visits_created_total",
		Help: "Total number of visits created by kind",
	}, []string{"kind"})

	// InvitationResponsesTotal counts invitation responses by decision.
	InvitationResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcircle_invitation_responses_total",
		Help: "Total number of invitation responses by decision",
	}, []string{"decision"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
