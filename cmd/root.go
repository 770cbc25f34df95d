// Package cmd contains the virtperf command line interface
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"virtperf/internal/config"
	"virtperf/internal/exitcode"
	"virtperf/internal/logger"
)

var (
	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "virtperf",
	Short: "Storage and network benchmark tooling for virtualized guests",
	Long: `virtperf drives storage benchmarks with fio and turns netperf
results into comparable reports.

Commands:

  fio run          Run a fio parameter sweep and keep one log per case
  netperf report   Summarize netperf result logs into a CSV table
  netperf history  List reports stored in the catalog
  netperf show     Print a stored report as CSV
  version          Show version and tool information`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return exitcode.Usage(err)
		}
		if cfg.NoColor {
			logger.DisableColors()
		}
		// Flags may have changed the level or format chosen from the environment
		if cmd.Flags().Changed("log-level") || cmd.Flags().Changed("log-format") || cmd.Flags().Changed("debug") {
			log = logger.New(cfg.EffectiveLogLevel(), cfg.LogFormat)
		}
		return nil
	},
}

// Execute runs the root command with the given configuration and logger
func Execute(ctx context.Context, c *config.Config, l logger.Logger) error {
	cfg = c
	log = l

	rootCmd.Version = cfg.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("virtperf %s (built %s, commit %s)\n", cfg.Version, cfg.BuildTime, cfg.GitCommit))

	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitcode.Usage(err)
	})

	return rootCmd.ExecuteContext(ctx)
}
