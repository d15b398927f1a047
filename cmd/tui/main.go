package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/lumbunglabs/kasir/cmd/tui/internal/view"
	"github.com/lumbunglabs/kasir/internal/catalog"
	"github.com/lumbunglabs/kasir/internal/config"
	"github.com/lumbunglabs/kasir/internal/database"
	"github.com/lumbunglabs/kasir/internal/export"
	"github.com/lumbunglabs/kasir/internal/history"
	"github.com/lumbunglabs/kasir/internal/history/filestore"
	pgStore "github.com/lumbunglabs/kasir/internal/history/store"
	"github.com/lumbunglabs/kasir/internal/till"
)

type View int

const (
	ViewRegister View = 0
	ViewHistory  View = 1
)

type model struct {
	historyService *history.Service

	currentView View

	registerView view.RegisterModel
	historyView  view.HistoryModel
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	cat := catalog.Default()
	if cfg.Till.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.Till.CatalogPath)
		if err != nil {
			slog.Error("failed to load catalog", "error", err)
			os.Exit(1)
		}
	}

	var repo history.Repository
	if cfg.Till.HistoryPath != "" {
		repo = filestore.New(cfg.Till.HistoryPath)
	} else {
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}

		store := pgStore.New(db)
		if err := store.Init(context.Background()); err != nil {
			slog.Error("failed to prepare receipts table", "error", err)
			os.Exit(1)
		}

		repo = store
	}

	histSvc := history.NewService(repo)
	session := till.NewSession(cat, repo, nil)
	scanner := till.NewScanner(session, cfg.Till.ScanCooldown)
	exportSvc := export.NewService(nil)

	return model{
		historyService: histSvc,
		currentView:    ViewRegister,
		registerView:   view.NewRegisterModel(session, scanner, exportSvc, cfg.Till.WarningTTL),
		historyView:    view.NewHistoryModel(histSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.registerView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case view.BackMsg:
		// The register is home; Back from history returns to it.
		m.currentView = ViewRegister
		return m, nil
	}

	switch m.currentView {
	case ViewRegister:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+h" {
			m.currentView = ViewHistory
			m.historyView = view.NewHistoryModel(m.historyService)

			return m, m.historyView.Init()
		}

		updated, cmd := m.registerView.Update(msg)
		if reg, ok := updated.(view.RegisterModel); ok {
			m.registerView = reg
		}

		return m, cmd

	case ViewHistory:
		updated, cmd := m.historyView.Update(msg)
		if hist, ok := updated.(view.HistoryModel); ok {
			m.historyView = hist
		}

		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	switch m.currentView {
	case ViewHistory:
		return m.historyView.View()
	default:
		return m.registerView.View()
	}
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("tui failed", "error", err)
		os.Exit(1)
	}
}
