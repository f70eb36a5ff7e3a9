package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/restock-core/internal/application/handlers"
	"github.com/ersonp/restock-core/internal/domain/services"
	"github.com/ersonp/restock-core/internal/infrastructure/config"
	"github.com/ersonp/restock-core/internal/infrastructure/fulfillment/warehouse"
	"github.com/ersonp/restock-core/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config     *config.Config
	Mitigation *handlers.MitigationHandler
	Review     *handlers.ReviewHandler
	Admin      *handlers.AdminHandler
	Inventory  *handlers.InventoryHandler
}

// withDeps loads config and builds the dependency graph, then calls the
// provided function. It handles cleanup automatically, waiting for any
// in-flight dispatch work before closing the database.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	fulfiller, err := warehouse.NewClient(cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("creating warehouse client: %w", err)
	}

	dispatcher := services.NewDispatchService(db, fulfiller)
	defer dispatcher.Close()

	governor := services.NewGovernorService(db, cfg.Governor.SafeThreshold)
	risk := services.NewRiskService(db)
	mitigation := services.NewMitigationService(
		db,
		risk,
		services.NewInstabilityService(db),
		services.NewDriftService(db),
		services.NewConfidenceService(db),
		services.NewEscalationService(db),
		governor,
		services.NewRecommenderService(),
		dispatcher,
		cfg.Governor.SafeThreshold,
	)
	scanner := services.NewScannerService(db, risk, mitigation, dispatcher, cfg.Governor.LowStockThreshold)
	metrics := services.NewMetricsService(db, governor)

	deps := &Deps{
		Config:     cfg,
		Mitigation: handlers.NewMitigationHandler(mitigation, scanner, dispatcher),
		Review:     handlers.NewReviewHandler(db, mitigation, dispatcher),
		Admin:      handlers.NewAdminHandler(db, governor, metrics),
		Inventory:  handlers.NewInventoryHandler(db),
	}
	return fn(deps)
}
