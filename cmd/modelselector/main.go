package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"modelselector/internal/config"
	"modelselector/internal/db"
	"modelselector/internal/models"
	"modelselector/internal/observability"
	"modelselector/internal/submission"
	"modelselector/internal/ui"
)

// diagnosticsRetention is how long submission outcomes are kept.
const diagnosticsRetention = 30 * 24 * time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.ConfigPath(), "path to config.yaml")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		return err
	}

	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger, logFile, err := observability.Open(cfg.LogPath(), level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	resolver, err := models.NewResolver(cfg.EndpointMap())
	if err != nil {
		return err
	}
	client := models.NewClient(cfg.RequestTimeout())

	ctx := context.Background()
	opts := []submission.Option{
		submission.WithLogger(logger),
		submission.WithDefaultModel(cfg.DefaultModel),
	}
	deps := ui.Deps{Logger: logger}

	if cfg.DiagnosticsEnabled() {
		store, err := openDiagnostics(ctx, cfg.DiagnosticsPath())
		if err != nil {
			// The form works without the journal
			logger.Warn("diagnostics disabled", "path", cfg.DiagnosticsPath(), "error", err)
		} else {
			defer store.Close()
			opts = append(opts, submission.WithRecorder(store))
			deps.Diagnostics = store
		}
	}

	deps.Controller = submission.NewController(resolver, client, opts...)
	logger.Info("starting",
		"config", *configPath,
		"default_model", cfg.DefaultModel.String(),
		"timeout", cfg.RequestTimeout().String(),
	)

	p := tea.NewProgram(ui.New(ctx, deps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func openDiagnostics(ctx context.Context, path string) (*db.Store, error) {
	store, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := store.Prune(ctx, time.Now().Add(-diagnosticsRetention)); err != nil {
		store.Close()
		return nil, fmt.Errorf("prune diagnostics: %w", err)
	}
	return store, nil
}
