// Package main seeds the field instance config store from the metadata
// catalog.
//
// The server seeds on startup when storage.seed_from_catalog is set. This
// command runs the same idempotent insert on its own, for deployments that
// keep seeding out of the serving path. Rows that already exist are left
// untouched.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"fieldhelptext.io/fieldhelptext/internal/app/modules"
	"fieldhelptext.io/fieldhelptext/internal/config"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	return seed(context.Background(), cfg)
}

func seed(ctx context.Context, cfg *config.Config) error {
	if cfg.Storage.Driver == config.DriverMemory {
		return fmt.Errorf("storage.driver %q does not persist; seeding it has no effect", cfg.Storage.Driver)
	}

	logger.Info("Starting catalog seeding...", zap.String("storage", cfg.Storage.Driver))

	seeded := *cfg
	seeded.Storage.SeedFromCatalog = true
	infra, err := modules.NewInfrastructure(ctx, &seeded)
	if err != nil {
		return err
	}
	defer infra.Close()

	logger.Info("Catalog seeding completed successfully")
	return nil
}
