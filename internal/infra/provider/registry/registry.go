// Package registry builds the configured seed source.
package registry

import (
	"fmt"

	"go.uber.org/zap"

	"course-search-service/internal/config"
	"course-search-service/internal/domain"
	"course-search-service/internal/infra/provider"
	"course-search-service/internal/infra/provider/file"
	"course-search-service/internal/infra/provider/remote"
)

// NewSeedSource returns the source selected by cfg.Source.
// catalog backs the postgres source and may be nil for every other one.
func NewSeedSource(cfg config.SeedConfig, catalog domain.SeedSource, logger *zap.Logger) (domain.SeedSource, error) {
	switch cfg.Source {
	case config.SeedEmbedded, "":
		return file.NewEmbedded(logger), nil

	case config.SeedFile:
		return file.NewFile(cfg.File, logger)

	case config.SeedRemote:
		return remote.New(
			provider.ClientConfig{
				BaseURL:  cfg.Remote.BaseURL,
				Endpoint: cfg.Remote.Endpoint,
				Timeout:  cfg.Remote.Timeout,
				Retry: provider.RetryConfig{
					MaxAttempts: cfg.Remote.Retry.MaxAttempts,
					WaitTime:    cfg.Remote.Retry.WaitTime,
					MaxWaitTime: cfg.Remote.Retry.MaxWaitTime,
				},
				CB: BreakerConfig(cfg.Remote.CB),
			},
			logger,
		), nil

	case config.SeedPostgres:
		if catalog == nil {
			return nil, fmt.Errorf("seed source %q requires a catalog database", cfg.Source)
		}
		return catalog, nil

	default:
		return nil, fmt.Errorf("unknown seed source %q", cfg.Source)
	}
}

// BreakerConfig converts circuit breaker settings from the config file.
func BreakerConfig(cfg config.CBConfig) provider.CBConfig {
	return provider.CBConfig{
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		FailureRatio: cfg.FailureRatio,
	}
}
