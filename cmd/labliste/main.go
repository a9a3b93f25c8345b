package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/labliste/internal/cli"
	"github.com/JonMunkholm/labliste/internal/config"
	"github.com/JonMunkholm/labliste/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists; variables already set take precedence
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitError)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	os.Exit(cli.Execute(context.Background(), cfg, os.Args[0], os.Args[1:], os.Stderr))
}
