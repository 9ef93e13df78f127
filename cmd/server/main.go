package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mlegrand/immoscan/internal/ai"
	"github.com/mlegrand/immoscan/internal/api"
	"github.com/mlegrand/immoscan/internal/cache"
	"github.com/mlegrand/immoscan/internal/config"
	"github.com/mlegrand/immoscan/internal/core"
	"github.com/mlegrand/immoscan/internal/httpx"
	"github.com/mlegrand/immoscan/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()

	fileCache, err := cache.Open(cfg.CachePath)
	if err != nil {
		slog.Error("failed to open cache", "path", cfg.CachePath, "error", err)
		os.Exit(1)
	}

	// The database is optional; without it everything lives in the file cache.
	var dbStore *store.Store
	if cfg.DatabaseURL != "" {
		dbStore, err = store.NewStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to store", "error", err)
			os.Exit(1)
		}
		defer dbStore.Close()

		workDir, _ := os.Getwd()
		schemaPath := filepath.Join(workDir, "internal", "store", "schema.sql")
		if err := dbStore.RunMigrations(schemaPath); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// Auto-detects the provider from GROQ_API_KEY
	aiClient := ai.NewClient()
	analyzer := core.NewAnalyzerService(aiClient)

	var targets []core.Target
	for _, city := range cfg.Cities {
		targets = append(targets, core.Target{City: city, Query: cfg.Query})
	}

	scanner := core.NewScanService(
		httpx.NewCollyFetcher(),
		httpx.NewPoliteClient(),
		fileCache,
		dbStore,
		targets,
	).WithMaxPages(cfg.MaxPages)

	ctx := context.Background()
	scanner.Start(ctx, cfg.ScanInterval)

	srv := api.NewServer(dbStore, fileCache, scanner, analyzer)

	slog.Info("starting server", "port", cfg.Port, "targets", len(targets))
	if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
