package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"course-search-service/internal/app/bootstrap"
	"course-search-service/internal/config"
	"course-search-service/internal/domain"
	"course-search-service/internal/infra/provider/registry"
)

func (c *cli) newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the seed dataset into an empty course index",
		Long: `Run the bulk loader against the configured index engine and seed source.
A populated index is left untouched.`,
		Args: cobra.NoArgs,
		RunE: c.runSeed,
	}
	cmd.Flags().String("source", "", "override seed.source (embedded, file, remote, postgres)")
	cmd.Flags().String("file", "", "override seed.file")
	return cmd
}

func (c *cli) runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if s, _ := cmd.Flags().GetString("source"); s != "" {
		c.cfg.Seed.Source = s
	}
	if f, _ := cmd.Flags().GetString("file"); f != "" {
		c.cfg.Seed.File = f
		if !cmd.Flags().Changed("source") {
			c.cfg.Seed.Source = config.SeedFile
		}
	}

	index, closeIndex, err := bootstrap.NewIndex(c.cfg, c.log.Logger)
	if err != nil {
		return err
	}
	defer closeIndex()

	redisClient, err := bootstrap.NewRedis(ctx, c.cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var catalog domain.SeedSource
	if c.cfg.Seed.Source == config.SeedPostgres {
		repo, closeCatalog, err := bootstrap.NewCatalog(ctx, c.cfg, c.log.Logger)
		if err != nil {
			return err
		}
		defer closeCatalog()
		catalog = repo
	}

	source, err := registry.NewSeedSource(c.cfg.Seed, catalog, c.log.Logger)
	if err != nil {
		return err
	}

	loader := bootstrap.NewLoader(c.cfg, index, source, redisClient, c.log.Logger)
	result, err := bootstrap.Seed(ctx, c.cfg, loader)
	if err != nil {
		return err
	}
	bootstrap.InvalidateCache(ctx, bootstrap.NewCache(c.cfg.Cache, redisClient, c.log.Logger), result, c.log.Logger)

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"source":   result.Source,
		"loaded":   result.Loaded,
		"existing": result.Existing,
		"skipped":  result.Skipped,
		"reason":   result.Reason,
		"duration": result.Duration.String(),
	})
}
