// Package bootstrap opens the storage adapter and cache selected by
// configuration and wires the services on top of them.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hotgist/internal/cache"
	"hotgist/internal/campus"
	"hotgist/internal/config"
	"hotgist/internal/database"
	"hotgist/internal/repository"
	"hotgist/internal/repository/filestore"
	"hotgist/internal/resilience"
	"hotgist/internal/service"
)

// Runtime is everything a server or command needs.
type Runtime struct {
	Store   *repository.Store
	Cache   *cache.Client
	Breaker *resilience.Breaker

	Feed      *service.FeedService
	Posts     *service.PostService
	Reactions *service.ReactionService
	Comments  *service.CommentService
}

// InitRuntime opens storage and Redis, seeds the campus catalog, and builds
// the services. Redis being down only disables caching.
func InitRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	store, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := store.Campuses.Upsert(ctx, campus.Default()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed campus catalog: %w", err)
	}

	return NewRuntime(cfg, store, cache.Connect(cfg.RedisURL, logger), logger), nil
}

// OpenStore returns the repositories for cfg.StorageDriver.
func OpenStore(cfg *config.Config, logger *slog.Logger) (*repository.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverFile:
		fs, err := filestore.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		logger.Info("file store opened", slog.String("dir", cfg.DataDir))
		return fs.Repositories(), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Connect(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return repository.NewGormStore(db), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// NewRuntime wires the services over an already opened store and cache.
func NewRuntime(cfg *config.Config, store *repository.Store, c *cache.Client, logger *slog.Logger) *Runtime {
	breaker := resilience.NewBreaker(resilience.Settings{
		Name:             "storage",
		FailureThreshold: uint32(max(cfg.BreakerFailureThreshold, 0)),
		Timeout:          cfg.BreakerTimeout(),
	}, logger)

	aggregator := service.NewCachedAggregator(
		service.NewStoreAggregator(store.Reactions, store.Comments),
		c, cfg.EngagementCacheTTL(), logger)

	feedCfg := service.FeedConfig{
		DefaultLimit:       cfg.FeedDefaultLimit,
		MaxLimit:           cfg.FeedMaxLimit,
		Concurrency:        cfg.FeedConcurrency,
		Timeout:            cfg.FeedTimeout(),
		TrendingCandidates: cfg.FeedTrendingCandidates,
	}

	return &Runtime{
		Store:     store,
		Cache:     c,
		Breaker:   breaker,
		Feed:      service.NewFeedService(store, aggregator, breaker, feedCfg, logger),
		Posts:     service.NewPostService(store, aggregator, aggregator, logger),
		Reactions: service.NewReactionService(store, aggregator, logger),
		Comments:  service.NewCommentService(store, aggregator, logger),
	}
}

// Close releases storage and Redis.
func (r *Runtime) Close() error {
	var errs []error
	if r.Store != nil && r.Store.Close != nil {
		errs = append(errs, r.Store.Close())
	}
	errs = append(errs, r.Cache.Close())
	return errors.Join(errs...)
}
