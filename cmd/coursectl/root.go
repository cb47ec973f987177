package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"course-search-service/internal/app/bootstrap"
	"course-search-service/internal/config"
	"course-search-service/internal/logger"
)

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	out        io.Writer
	configPath string
	cfg        *config.Config
	log        *logger.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "coursectl",
		Short:         "Operator tooling for course-search-service",
		SilenceUsage:  true,
		SilenceErrors: false,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "explain" {
				c.log = logger.NewNop()
				return nil
			}
			return c.load()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./config/config.yaml)")

	root.AddCommand(
		c.newSeedCmd(),
		c.newImportCmd(),
		c.newExplainCmd(),
	)

	return root
}

func (c *cli) load() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	c.cfg = cfg
	c.log = log
	c.log.Debug("config loaded", zap.String("path", c.configPath))

	return nil
}
