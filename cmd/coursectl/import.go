package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"course-search-service/internal/app/bootstrap"
	"course-search-service/internal/app/service"
	"course-search-service/internal/infra/provider/file"
)

func (c *cli) newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import --file courses.json",
		Short: "Upsert a seed file into the Postgres course catalog",
		Long: `Read a .json, .yaml or .yml seed file, validate every record and upsert
the courses into the catalog table by id. The whole file is rejected if any
record is invalid.`,
		Args: cobra.NoArgs,
		RunE: c.runImport,
	}
	cmd.Flags().StringP("file", "f", "", "seed file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	path, _ := cmd.Flags().GetString("file")

	src, err := file.NewFile(path, c.log.Logger)
	if err != nil {
		return err
	}

	courses, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := service.Prepare(courses); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	repo, closeCatalog, err := bootstrap.NewCatalog(ctx, c.cfg, c.log.Logger)
	if err != nil {
		return err
	}
	defer closeCatalog()

	if err := repo.BulkUpsert(ctx, courses); err != nil {
		return err
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	c.log.Info("catalog import completed",
		zap.String("file", path),
		zap.Int("upserted", len(courses)),
		zap.Int64("total", total),
	)
	_, err = fmt.Fprintf(c.out, "upserted %d courses from %s (catalog now holds %d)\n", len(courses), path, total)
	return err
}
