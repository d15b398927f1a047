package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lumbunglabs/kasir/internal/catalog"
	"github.com/lumbunglabs/kasir/internal/config"
	"github.com/lumbunglabs/kasir/internal/database"
	"github.com/lumbunglabs/kasir/internal/export"
	"github.com/lumbunglabs/kasir/internal/history"
	fileStore "github.com/lumbunglabs/kasir/internal/history/filestore"
	pgStore "github.com/lumbunglabs/kasir/internal/history/store"
	kasirHttp "github.com/lumbunglabs/kasir/internal/http"
	catalogHandler "github.com/lumbunglabs/kasir/internal/http/catalog"
	historyHandler "github.com/lumbunglabs/kasir/internal/http/history"
	tillHandler "github.com/lumbunglabs/kasir/internal/http/till"
	"github.com/lumbunglabs/kasir/internal/till"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	repo, cleanup, err := openHistory(cfg)
	if err != nil {
		slog.Error("failed to open receipt history", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var (
		historyService = history.NewService(repo)
		exportService  = export.NewService(nil)
		session        = till.NewSession(cat, repo, nil)
		scanner        = till.NewScanner(session, cfg.Till.ScanCooldown)
	)

	var (
		tillH    = tillHandler.NewHandler(session, scanner, exportService, nil)
		catalogH = catalogHandler.NewHandler(cat)
		historyH = historyHandler.NewHandler(historyService)
	)

	router := kasirHttp.New(tillH, catalogH, historyH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting till", "port", port, "session", session.ID())

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Till.CatalogPath == "" {
		return catalog.Default(), nil
	}

	cat, err := catalog.LoadFile(cfg.Till.CatalogPath)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded catalog", "path", cfg.Till.CatalogPath, "products", len(cat.Products()))

	return cat, nil
}

// openHistory picks the receipt store: a JSON log file when HISTORY_PATH is
// set, the local Postgres database otherwise.
func openHistory(cfg *config.Config) (history.Repository, func(), error) {
	if cfg.Till.HistoryPath != "" {
		slog.Info("using file receipt log", "path", cfg.Till.HistoryPath)
		return fileStore.New(cfg.Till.HistoryPath), func() {}, nil
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, nil, err
	}

	store := pgStore.New(db)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := store.Init(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return store, func() { db.Close() }, nil
}
