package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"todoman/internal/app"
	"todoman/internal/config"
	"todoman/internal/logging"
	"todoman/internal/storage"
	"todoman/internal/ui"
)

func main() {
	configPath := flag.String("config", config.ResolveConfigPath(), "path to config.toml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred closes always happen.
func run(configPath string) error {
	firstLaunch := false
	if _, err := os.Stat(configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := app.SettingsFrom(cfg)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer logFile.Close()
	if firstLaunch {
		logger.Info("wrote default config", "path", configPath)
	}

	backend, err := storage.Open(cfg.Storage, cfg.DataPath)
	if err != nil {
		logger.Error("open storage", "kind", cfg.Storage, "path", cfg.DataPath, "error", err)
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer backend.Close()
	logger.Info("opened storage", "kind", cfg.Storage, "path", cfg.DataPath)

	ctx := context.Background()
	a, err := app.Load(ctx, backend, settings, logger)
	if err != nil {
		logger.Error("load state", "error", err)
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	if err := ui.Run(a, cfg); err != nil {
		logger.Error("ui exited", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}
	if err := a.Flush(ctx); err != nil {
		logger.Error("final save", "error", err)
		return fmt.Errorf("failed to save: %w", err)
	}
	logger.Info("exited cleanly")
	return nil
}
