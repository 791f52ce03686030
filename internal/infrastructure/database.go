// Package infrastructure opens the storage backends behind the field
// instance config store.
package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"fieldhelptext.io/fieldhelptext/internal/config"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
)

// DatabaseClients holds the open handles for the selected storage driver.
// Only one of Pool and SQLite is set.
type DatabaseClients struct {
	// Pool is the PostgreSQL connection pool.
	Pool *pgxpool.Pool

	// SQLite is the embedded database handle.
	SQLite *sql.DB
}

// NewPostgresPool creates and verifies a pgxpool from cfg.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = time.Minute

	// updated_at is written with now(); keep it in UTC.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET timezone = 'UTC'")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Database connection pool created",
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Int32("min_conns", cfg.MinConns),
	)
	return pool, nil
}

// OpenSQLite opens (creating if needed) the SQLite file at cfg.Path.
func OpenSQLite(ctx context.Context, cfg config.SQLiteConfig) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc serializes writers per connection; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	logger.Info("SQLite database opened", zap.String("path", cfg.Path))
	return db, nil
}

// NewDatabaseClients opens the handle required by cfg.Storage.Driver.
// The memory driver needs none and returns an empty DatabaseClients.
func NewDatabaseClients(ctx context.Context, cfg *config.Config) (*DatabaseClients, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return &DatabaseClients{Pool: pool}, nil
	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return &DatabaseClients{SQLite: db}, nil
	default:
		return &DatabaseClients{}, nil
	}
}

// Close closes whatever handles are open.
func (c *DatabaseClients) Close() {
	if c.SQLite != nil {
		_ = c.SQLite.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
