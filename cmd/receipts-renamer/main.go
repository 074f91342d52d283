package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/receipts-renamer/internal/bootstrap"
	"github.com/joseph-ayodele/receipts-renamer/internal/common"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func usage() {
	printError("usage: receipts-renamer [-debug] <init|run>\n\n" +
		"  init  seed apiKey, rootFolderIds and modelName from the [seed] config section if apiKey is unset\n" +
		"  run   rename every unprocessed PDF under the configured root folders\n")
}

func main() {
	debug := flag.Bool("debug", false, "log at debug level (includes raw model responses)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	command := flag.Arg(0)
	if command != "init" && command != "run" {
		printError("Error: unknown command %q\n", command)
		usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	os.Exit(run(command, logger))
}

func run(command string, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("config.load_failed", "error", err)
		return 1
	}

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap.failed", "error", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("bootstrap.close_failed", "error", err)
		}
	}()

	if command == "init" {
		wrote, err := app.Initialize(ctx)
		if err != nil {
			logger.Error("init.failed", "error", err)
			return 1
		}
		logger.Info("init.done", "seeded", wrote)
		return 0
	}

	sum, err := app.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, common.ErrConfigurationMissing) {
			logger.Error("run.aborted", "error", err, "hint", "run `receipts-renamer init` first")
		} else {
			logger.Error("run.aborted", "error", err)
		}
		return 1
	}
	if sum.Failed > 0 {
		logger.Warn("run.completed_with_failures", "failed", sum.Failed, "renamed", sum.Renamed)
		return 3
	}
	logger.Info("run.done", "renamed", sum.Renamed, "skipped", sum.Skipped)
	return 0
}
