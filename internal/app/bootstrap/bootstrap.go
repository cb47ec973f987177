// Package bootstrap wires infrastructure from configuration. It is shared by
// the API server and the coursectl operator CLI.
package bootstrap

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/internal/config"
	"course-search-service/internal/domain"
	"course-search-service/internal/infra/elasticsearch"
	"course-search-service/internal/infra/memindex"
	"course-search-service/internal/infra/postgres"
	"course-search-service/internal/infra/postgres/migrations"
	"course-search-service/internal/infra/provider/registry"
	rediscache "course-search-service/internal/infra/redis"
	"course-search-service/internal/logger"
	"course-search-service/pkg/locker"
)

// NewLogger builds the zap logger with the optional Sentry tee.
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
}

// NewIndex returns the configured course index and a func releasing it.
func NewIndex(cfg *config.Config, log *zap.Logger) (domain.CourseIndex, func(), error) {
	switch cfg.Index.Engine {
	case config.EngineElasticsearch:
		es := cfg.Index.Elasticsearch
		client, err := elasticsearch.New(elasticsearch.Config{
			Addresses:  es.Addresses,
			Username:   es.Username,
			Password:   es.Password,
			Index:      cfg.Index.Name,
			Timeout:    es.Timeout,
			MaxRetries: es.MaxRetries,
			Refresh:    es.Refresh,
			CB:         registry.BreakerConfig(es.CB),
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil

	case config.EngineMemory:
		ix, err := memindex.New(log)
		if err != nil {
			return nil, nil, err
		}
		return ix, func() { _ = ix.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown index engine %q", cfg.Index.Engine)
	}
}

// NewRedis connects to Redis, or returns nil when it is disabled.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return rediscache.NewClient(ctx, cfg.Addr(), cfg.Password, cfg.DB)
}

// NewCache returns the response cache, or nil when caching is off.
func NewCache(cfg config.CacheConfig, client *goredis.Client, log *zap.Logger) domain.Cache {
	if !cfg.Enabled || client == nil {
		return nil
	}
	return rediscache.NewCache(client, log, cfg.KeyPrefix)
}

// NewCatalog connects to the Postgres course catalog and applies migrations.
func NewCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*postgres.Repository, func(), error) {
	db, err := postgres.NewConnection(ctx,
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		cfg.App.Debug,
		log,
	)
	if err != nil {
		return nil, nil, err
	}

	if err := migrations.Run(db); err != nil {
		_ = postgres.Close(db)
		return nil, nil, err
	}
	applied, err := migrations.Applied(db)
	if err != nil {
		_ = postgres.Close(db)
		return nil, nil, err
	}
	log.Info("catalog migrations completed", zap.Strings("applied", applied))

	return postgres.NewRepository(db), func() { _ = postgres.Close(db) }, nil
}

// NewLoader builds the bulk loader. The seed lock is used only when
// seed.lock is set and a Redis client is available.
func NewLoader(
	cfg *config.Config,
	index domain.DocumentIndex,
	source domain.SeedSource,
	client *goredis.Client,
	log *zap.Logger,
) *service.LoaderService {
	var lk locker.DistributedLocker
	if cfg.Seed.Lock && client != nil {
		lk = locker.NewRedisLocker(client, log)
	}

	return service.NewLoaderService(index, source, lk, cfg.Seed.LockTTL, log)
}

// Seed runs the bulk loader bounded by seed.timeout.
func Seed(ctx context.Context, cfg *config.Config, loader *service.LoaderService) (*service.LoadResult, error) {
	if cfg.Seed.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Seed.Timeout)
		defer cancel()
	}

	return loader.LoadIfEmpty(ctx)
}

// InvalidateCache drops cached responses after a load that wrote documents.
// A failure is logged and otherwise ignored.
func InvalidateCache(ctx context.Context, cache domain.Cache, result *service.LoadResult, log *zap.Logger) {
	if cache == nil || result == nil || result.Loaded == 0 {
		return
	}
	if err := cache.Clear(ctx); err != nil {
		log.Warn("failed to clear response cache after seeding", zap.Error(err))
	}
}
