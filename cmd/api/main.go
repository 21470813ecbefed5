package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"generank/adapters/postgres"
	"generank/adapters/stats/engine"
	"generank/app"
	"generank/internal"
	"generank/internal/config"
	"generank/internal/testkit"
	"generank/ports"
	"generank/ui"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := internal.DefaultLogger

	ledger, reader := buildLedger(cfg, logger)
	analysis := app.NewAnalysisService(engine.NewSeededRNG(), ledger, logger)

	apiApp := ui.NewApp(ui.Config{
		Port:         cfg.Server.Port,
		Workers:      cfg.Analysis.Workers,
		Permutations: cfg.Analysis.Permutations,
		Seed:         cfg.Analysis.Seed,
		MinSetSize:   cfg.Analysis.MinSetSize,
		MaxSetSize:   cfg.Analysis.MaxSetSize,
	}, analysis, reader)

	if err := apiApp.Start(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// buildLedger wires the Postgres ledger when DATABASE_URL is set and
// falls back to the in-memory ledger otherwise.
func buildLedger(cfg *config.Config, logger *internal.Logger) (ports.LedgerPort, ports.LedgerReaderPort) {
	if !cfg.Database.Enabled {
		logger.Info("DATABASE_URL not set, using in-memory ledger")
		mem := testkit.NewInMemoryLedgerAdapter()
		return mem, mem
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := postgres.Schema(ctx, db); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	repo := postgres.NewLedgerRepository(db)
	logger.Info("using Postgres ledger")
	return repo, repo
}
