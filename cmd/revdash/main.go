package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"revdash/internal/config"
	"revdash/internal/database"
	"revdash/internal/database/repository"
	"revdash/internal/logging"
	"revdash/internal/service"
	"revdash/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	logger, closer, err := logging.Setup(filepath.Join(filepath.Dir(cfg.Database.Path), "revdash.log"))
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer closer.Close()

	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	entryRepo := repository.NewEntryRepo(db)
	streamRepo := repository.NewStreamRepo(db)
	productRepo := repository.NewProductRepo(db)
	clientRepo := repository.NewClientRepo(db)
	groupRepo := repository.NewGroupRepo(db)

	metrics := &service.MetricsService{Entries: entryRepo, Streams: streamRepo, Products: productRepo, Clients: clientRepo, Groups: groupRepo}
	ingest := &service.IngestService{
		Entries:        entryRepo,
		Streams:        streamRepo,
		Products:       productRepo,
		Clients:        clientRepo,
		Log:            logger,
		DefaultGroupID: database.SeedID("group:" + database.DefaultGroupName),
	}
	maintenance := &service.MaintenanceService{DB: db}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Printf("warn: using local timezone due to load failure: %v", err)
		loc = time.Local
	}

	app, err := tui.New(ctx, cfg,
		tui.Services{Metrics: metrics, Ingest: ingest, Maintenance: maintenance},
		loc, logger,
	)
	if err != nil {
		log.Fatalf("tui: %v", err)
	}
	logger.Info().Str("db", cfg.Database.Path).Msg("starting revdash")

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
