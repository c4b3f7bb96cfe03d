// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokerclub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jokerclub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VisibilityResolutions counts codeblock visibility resolutions by outcome.
	VisibilityResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokerclub_visibility_resolutions_total",
		Help: "Total codeblock visibility resolutions by outcome",
	}, []string{"tier", "redacted"})

	// AccessCacheHits counts access-resolution cache lookups by result.
	AccessCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokerclub_access_cache_lookups_total",
		Help: "Access-resolution cache lookups by result (hit/miss)",
	}, []string{"result"})

	// AuthRefreshTotal counts session refresh attempts by outcome.
	AuthRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokerclub_auth_refresh_total",
		Help: "Session refresh attempts by outcome (success/failure)",
	}, []string{"outcome"})

	// ToggleRollbacks counts optimistic toggle mutations that were rolled back.
	ToggleRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokerclub_toggle_rollbacks_total",
		Help: "Optimistic toggle mutations rolled back after a remote failure",
	}, []string{"kind"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jokerclub_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// NotificationsPublished counts notifications published to Redis channels.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokerclub_notifications_published_total",
		Help: "Notifications published to Redis channels by type",
	}, []string{"type"})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokerclub_websocket_backpressure_drops_total",
		Help: "Messages dropped due to websocket client backpressure",
	}, []string{"hub", "reason"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
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
