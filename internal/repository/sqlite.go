package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

var _ FieldConfigStore = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS field_instance_config (
	entity_type TEXT NOT NULL,
	bundle      TEXT NOT NULL,
	field_name  TEXT NOT NULL,
	label       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (entity_type, bundle, field_name)
)`

// SQLiteStore keeps records in an embedded SQLite database opened with the
// modernc.org/sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database and creates the table if needed.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("create field_instance_config: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get loads one record.
func (s *SQLiteStore) Get(ctx context.Context, key domain.InstanceKey) (*domain.FieldInstanceConfig, error) {
	cfg := domain.FieldInstanceConfig{
		EntityType: key.EntityType,
		Bundle:     key.Bundle,
		FieldName:  key.FieldName,
	}
	err := s.db.QueryRowContext(ctx,
		"SELECT label, description FROM field_instance_config WHERE entity_type = ? AND bundle = ? AND field_name = ?",
		key.EntityType, key.Bundle, key.FieldName,
	).Scan(&cfg.Label, &cfg.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get field config %s.%s.%s: %w", key.EntityType, key.Bundle, key.FieldName, err)
	}
	return &cfg, nil
}

// Save upserts the record.
func (s *SQLiteStore) Save(ctx context.Context, cfg *domain.FieldInstanceConfig) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO field_instance_config (entity_type, bundle, field_name, label, description, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (entity_type, bundle, field_name)
DO UPDATE SET label = excluded.label, description = excluded.description, updated_at = excluded.updated_at`,
		cfg.EntityType, cfg.Bundle, cfg.FieldName, cfg.Label, cfg.Description, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save field config %s.%s.%s: %w", cfg.EntityType, cfg.Bundle, cfg.FieldName, err)
	}
	return nil
}

// InsertIfAbsent inserts the record unless the key exists.
func (s *SQLiteStore) InsertIfAbsent(ctx context.Context, cfg *domain.FieldInstanceConfig) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO field_instance_config (entity_type, bundle, field_name, label, description, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		cfg.EntityType, cfg.Bundle, cfg.FieldName, cfg.Label, cfg.Description, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("seed field config %s.%s.%s: %w", cfg.EntityType, cfg.Bundle, cfg.FieldName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
