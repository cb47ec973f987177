// Package main is the entry point for the course-search-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"course-search-service/internal/app/bootstrap"
	"course-search-service/internal/app/service"
	"course-search-service/internal/config"
	"course-search-service/internal/domain"
	"course-search-service/internal/infra/provider/registry"
	"course-search-service/internal/transport/httpserver"
	"course-search-service/internal/validator"
)

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting course-search-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("index_engine", cfg.Index.Engine),
		zap.String("seed_source", cfg.Seed.Source),
	)

	ctx := context.Background()

	// Course index
	index, closeIndex, err := bootstrap.NewIndex(cfg, log.Logger)
	if err != nil {
		log.Fatal("failed to create course index", zap.Error(err))
	}
	defer closeIndex()

	// Redis backs the response cache and the seed lock; both are optional
	redisClient, err := bootstrap.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Seed source
	var catalog domain.SeedSource
	if cfg.Seed.Source == config.SeedPostgres {
		repo, closeCatalog, err := bootstrap.NewCatalog(ctx, cfg, log.Logger)
		if err != nil {
			log.Fatal("failed to open course catalog", zap.Error(err))
		}
		defer closeCatalog()
		catalog = repo
	}

	source, err := registry.NewSeedSource(cfg.Seed, catalog, log.Logger)
	if err != nil {
		log.Fatal("failed to create seed source", zap.Error(err))
	}

	// Seeding finishes before the server accepts traffic
	loader := bootstrap.NewLoader(cfg, index, source, redisClient, log.Logger)
	seeded, err := bootstrap.Seed(ctx, cfg, loader)
	if err != nil {
		log.Fatal("failed to load seed data", zap.Error(err))
	}

	cache := bootstrap.NewCache(cfg.Cache, redisClient, log.Logger)
	if cache != nil {
		log.Info("response cache enabled",
			zap.Duration("search_ttl", cfg.Cache.SearchTTL),
			zap.Duration("suggest_ttl", cfg.Cache.SuggestTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
		bootstrap.InvalidateCache(ctx, cache, seeded, log.Logger)
	}

	searchSvc := service.NewSearchService(index, cache,
		service.CacheTTL{Search: cfg.Cache.SearchTTL, Suggest: cfg.Cache.SuggestTTL},
		log.Logger,
	)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024,
			Debug:     cfg.App.Debug,
			Engine:    cfg.Index.Engine,
		},
		searchSvc,
		index,
		validator.New(),
		log.Logger,
	)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
