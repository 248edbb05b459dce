package service

import (
	"context"
	"log/slog"
	"time"

	"hotgist/internal/cache"
	"hotgist/internal/models"
	"hotgist/internal/observability"
)

// CachedAggregator memoizes another Aggregator in Redis with a short TTL.
// Any cache problem falls through to the wrapped aggregator.
type CachedAggregator struct {
	inner  Aggregator
	cache  *cache.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedAggregator(inner Aggregator, c *cache.Client, ttl time.Duration, logger *slog.Logger) *CachedAggregator {
	if ttl <= 0 {
		ttl = cache.DefaultEngagementTTL
	}
	return &CachedAggregator{inner: inner, cache: c, ttl: ttl, logger: logger}
}

func (a *CachedAggregator) Aggregate(ctx context.Context, postID string) (models.Engagement, error) {
	if !a.cache.Enabled() {
		return a.inner.Aggregate(ctx, postID)
	}

	key := cache.EngagementKey(postID)

	var eng models.Engagement
	found, err := a.cache.GetJSON(ctx, key, &eng)
	switch {
	case err != nil:
		observability.EngagementCacheResults.WithLabelValues("error").Inc()
		a.logger.WarnContext(ctx, "engagement cache read failed",
			slog.String("post_id", postID), slog.String("error", err.Error()))
	case found:
		observability.EngagementCacheResults.WithLabelValues("hit").Inc()
		return eng, nil
	default:
		observability.EngagementCacheResults.WithLabelValues("miss").Inc()
	}

	eng, err = a.inner.Aggregate(ctx, postID)
	if err != nil {
		return models.Engagement{}, err
	}

	if err := a.cache.SetJSON(ctx, key, eng, a.ttl); err != nil {
		a.logger.WarnContext(ctx, "engagement cache write failed",
			slog.String("post_id", postID), slog.String("error", err.Error()))
	}
	return eng, nil
}

// Invalidate drops the cached entry so the next read recomputes.
func (a *CachedAggregator) Invalidate(ctx context.Context, postID string) {
	if err := a.cache.Invalidate(ctx, cache.EngagementKey(postID)); err != nil {
		a.logger.WarnContext(ctx, "engagement cache invalidation failed",
			slog.String("post_id", postID), slog.String("error", err.Error()))
	}
}
