// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LikesToggled counts like toggles by resulting action ("liked" or "unliked").
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_likes_toggled_total",
		Help: "Total number of like toggles by resulting action",
	}, []string{"action"})

	// CommentsCreated counts successfully created comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_comments_created_total",
		Help: "Total number of comments created",
	})

	// NotificationsPublished counts stored notifications by type.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_notifications_published_total",
		Help: "Total number of notifications published by type",
	}, []string{"type"})

	// ProjectViews counts recorded project detail views.
	ProjectViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_project_views_total",
		Help: "Total number of recorded project views",
	})

	// CacheHits counts cache-aside hits by cache name.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_cache_hits_total",
		Help: "Total number of cache hits by cache name",
	}, []string{"cache"})

	// CacheMisses counts cache-aside misses by cache name.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_cache_misses_total",
		Help: "Total number of cache misses by cache name",
	}, []string{"cache"})

	// RateLimitExceeded counts rejected requests by rate limit resource.
	RateLimitExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_rate_limit_exceeded_total",
		Help: "Total number of requests rejected by rate limiting",
	}, []string{"resource"})
)

// DatabaseMetrics records query latency for repository operations.
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
