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
		Name: "echodrop_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "echodrop_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "echodrop_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echodrop_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// RealtimeEventsTotal counts change events published per collection.
	RealtimeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echodrop_realtime_events_total",
		Help: "Total number of change events published by collection and action",
	}, []string{"collection", "action"})

	// UploadsTotal counts audio uploads by kind and outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echodrop_uploads_total",
		Help: "Total number of audio uploads by kind and outcome",
	}, []string{"kind", "outcome"})

	// UploadBytes records the size distribution of accepted uploads.
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "echodrop_upload_bytes",
		Help:    "Size in bytes of accepted audio uploads",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 6),
	})

	// RecordingsTotal counts recording sessions by outcome (saved, cancelled, failed).
	RecordingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echodrop_recordings_total",
		Help: "Total number of recording sessions by outcome",
	}, []string{"outcome"})

	// PlaybackSessionsTotal counts playback sessions by outcome.
	PlaybackSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echodrop_playback_sessions_total",
		Help: "Total number of playback sessions by outcome",
	}, []string{"outcome"})

	// FeedRefreshesTotal counts feed fetches by trigger (initial, manual, realtime).
	FeedRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echodrop_feed_refreshes_total",
		Help: "Total number of feed refreshes by trigger",
	}, []string{"trigger"})
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
