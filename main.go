// virtperf runs storage benchmark sweeps with fio and summarizes netperf
// results for virtualized guests.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"virtperf/cmd"
	"virtperf/internal/config"
	"virtperf/internal/exitcode"
	"virtperf/internal/logger"
)

// Build information (set by ldflags)
var (
	version   = "1.0.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.New()
	cfg.Version = version
	cfg.BuildTime = buildTime
	cfg.GitCommit = gitCommit

	log := logger.New(cfg.EffectiveLogLevel(), cfg.LogFormat)

	if err := cmd.Execute(ctx, cfg, log); err != nil {
		logger.Failure("%v", err)
		cancel()
		os.Exit(exitcode.ExitWithCode(err))
	}
}
