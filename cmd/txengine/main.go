package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grachmannico95/txengine/internal/config"
	"github.com/grachmannico95/txengine/internal/output"
	"github.com/grachmannico95/txengine/internal/service"
	"github.com/grachmannico95/txengine/pkg/logger"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: txengine <transactions.csv>")
		os.Exit(2)
	}
	inputPath := os.Args[1]

	cfg := config.Load()

	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	// Interrupt stops the run; no partial account table is written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "Starting txengine",
		"input", inputPath,
		"channel_buffer", cfg.EventBus.ChannelBufferSize,
	)

	file, err := os.Open(inputPath)
	if err != nil {
		log.Fatal(ctx, "Failed to open input",
			"input", inputPath,
			"error", err,
		)
	}
	defer file.Close()

	engine := service.NewEngineService(cfg.EventBus.ChannelBufferSize, log)

	result, err := engine.Process(ctx, file)
	if err != nil {
		log.Fatal(ctx, "Failed to process input",
			"input", inputPath,
			"error", err,
		)
	}

	ctx = logger.WithRunID(ctx, result.RunID)

	if err := output.WriteAccounts(os.Stdout, result.Accounts); err != nil {
		log.Fatal(ctx, "Failed to write accounts",
			"error", err,
		)
	}

	if cfg.Output.DisputedPath != "" {
		if err := writeDisputed(cfg.Output.DisputedPath, result.Disputed); err != nil {
			log.Fatal(ctx, "Failed to write disputed transactions",
				"path", cfg.Output.DisputedPath,
				"error", err,
			)
		}
	}

	log.Info(ctx, "txengine finished",
		"accounts", len(result.Accounts),
		"disputed", len(result.Disputed),
		"malformed", result.Stats.Malformed,
		"rejected", result.Stats.Rejected,
	)
}

func writeDisputed(path string, disputed []uint32) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := output.WriteDisputed(file, disputed); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
