package modules

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fieldhelptext.io/fieldhelptext/internal/config"
	"fieldhelptext.io/fieldhelptext/internal/infrastructure"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
	"fieldhelptext.io/fieldhelptext/internal/provider"
	"fieldhelptext.io/fieldhelptext/internal/repository"
)

// Infrastructure holds shared cross-cutting dependencies for all modules.
// It is a provider, not a Module.
type Infrastructure struct {
	Config  *config.Config
	DB      *infrastructure.DatabaseClients
	Catalog *provider.Catalog
	Store   repository.FieldConfigStore
}

// NewInfrastructure loads the metadata catalog, opens the configured store
// and seeds it from the catalog when enabled.
func NewInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	catalog, err := provider.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	db, err := infrastructure.NewDatabaseClients(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	store, err := newStore(ctx, cfg, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}

	if cfg.Storage.SeedFromCatalog {
		inserted, err := repository.Seed(ctx, store, catalog.InstanceConfigs())
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
		logger.Info("Field instance configs seeded from catalog", zap.Int("inserted", inserted))
	}

	return &Infrastructure{
		Config:  cfg,
		DB:      db,
		Catalog: catalog,
		Store:   store,
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config, db *infrastructure.DatabaseClients) (repository.FieldConfigStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		store := repository.NewPostgresStore(db.Pool)
		// Dev-mode: create the field_instance_config table on boot.
		if cfg.Database.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("auto-migrate: %w", err)
			}
		}
		return store, nil
	case config.DriverSQLite:
		return repository.NewSQLiteStore(ctx, db.SQLite)
	default:
		return repository.NewMemoryStore(), nil
	}
}

// Close releases infra resources in reverse dependency order.
func (i *Infrastructure) Close() {
	if i == nil {
		return
	}
	if i.DB != nil {
		i.DB.Close()
	}
}
