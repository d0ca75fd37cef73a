package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"tymodoro/internal/config"
	"tymodoro/internal/logging"
	"tymodoro/internal/platform"
)

const (
	appName = "TYMODORO"
	appID   = "com.tymodoro.app"
	dataDir = "tymodoro"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "tymodoro: %v\n", err)
		return 2
	}

	logDir, err := logging.ResolveDir(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tymodoro: %v\n", err)
		return 1
	}
	logging.SetDir(logDir)

	// The terminal surface owns stdout, so console logs go nowhere in -tui mode.
	var console io.Writer = os.Stderr
	if cfg.TUI {
		console = nil
	}
	logger, err := logging.Init(console, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tymodoro: %v\n", err)
		return 1
	}
	defer logging.Close()

	if cfg.Export != "" {
		if err := runExport(cfg, logger); err != nil {
			logger.Error().Err(err).Msg("export failed")
			return 1
		}
		return 0
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Info().Err(err).Msg("single instance")
		return 0
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := newCore(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("startup failed")
		return 1
	}
	defer core.Close()

	if cfg.TUI {
		err = runTerminal(ctx, core, guard)
	} else {
		err = runDesktop(ctx, core, guard)
	}
	if err != nil {
		logger.Error().Err(err).Msg("exited with error")
		return 1
	}
	return 0
}
