package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedLatency records feed assembly latency by feed kind.
	FeedLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hotgist_feed_assembly_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// FeedEnrichmentFailures counts posts dropped from a page because their
	// engagement could not be aggregated.
	FeedEnrichmentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hotgist_feed_enrichment_failures_total",
		Help: "Total number of posts dropped from a feed page after an aggregation failure",
	})

	// FeedStorageFailures counts whole feed requests failed as storage unavailable.
	FeedStorageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotgist_feed_storage_failures_total",
		Help: "Total number of feed requests failed with storage unavailable",
	}, []string{"reason"})

	// EngagementCacheResults counts engagement cache lookups by outcome.
	EngagementCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotgist_engagement_cache_total",
		Help: "Engagement cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotgist_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// StorageBreakerState reports the storage circuit breaker state (0 closed, 1 half-open, 2 open).
	StorageBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hotgist_storage_breaker_state",
		Help: "Storage circuit breaker state: 0 closed, 1 half-open, 2 open",
	})

	// ReactionToggles counts reaction toggles by resulting action.
	ReactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotgist_reaction_toggles_total",
		Help: "Total reaction toggles by action (added, updated, removed)",
	}, []string{"action"})
)

// TrackFeed returns a function that records feed latency when called (e.g. defer).
func TrackFeed(kind string) func() {
	start := time.Now()
	return func() {
		FeedLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
