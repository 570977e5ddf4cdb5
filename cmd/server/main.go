// Package main is the entry point of the nutrition tracker server.
//
// main stays minimal: read configuration, build the logger, hand both to
// internal/server. All logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/nutrition-tracker/internal/config"
	"github.com/sakif/nutrition-tracker/internal/server"
)

func main() {
	// Configuration comes first so LOG_LEVEL can shape the logger; until
	// then, errors go to a default logger.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
