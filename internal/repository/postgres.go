package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

var _ FieldConfigStore = (*PostgresStore)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS field_instance_config (
	entity_type TEXT NOT NULL,
	bundle      TEXT NOT NULL,
	field_name  TEXT NOT NULL,
	label       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (entity_type, bundle, field_name)
)`

// PostgresStore keeps records in the field_instance_config table.
// The pool is owned by the caller.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the table when it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create field_instance_config: %w", err)
	}
	return nil
}

// Get loads one record.
func (s *PostgresStore) Get(ctx context.Context, key domain.InstanceKey) (*domain.FieldInstanceConfig, error) {
	cfg := domain.FieldInstanceConfig{
		EntityType: key.EntityType,
		Bundle:     key.Bundle,
		FieldName:  key.FieldName,
	}
	err := s.pool.QueryRow(ctx, `
SELECT label, description
FROM field_instance_config
WHERE entity_type = $1 AND bundle = $2 AND field_name = $3`,
		key.EntityType, key.Bundle, key.FieldName,
	).Scan(&cfg.Label, &cfg.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get field config %s.%s.%s: %w", key.EntityType, key.Bundle, key.FieldName, err)
	}
	return &cfg, nil
}

// Save upserts the record.
func (s *PostgresStore) Save(ctx context.Context, cfg *domain.FieldInstanceConfig) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO field_instance_config (entity_type, bundle, field_name, label, description, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (entity_type, bundle, field_name)
DO UPDATE SET label = EXCLUDED.label, description = EXCLUDED.description, updated_at = now()`,
		cfg.EntityType, cfg.Bundle, cfg.FieldName, cfg.Label, cfg.Description,
	)
	if err != nil {
		return fmt.Errorf("save field config %s.%s.%s: %w", cfg.EntityType, cfg.Bundle, cfg.FieldName, err)
	}
	return nil
}

// InsertIfAbsent inserts the record unless the key exists.
func (s *PostgresStore) InsertIfAbsent(ctx context.Context, cfg *domain.FieldInstanceConfig) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
INSERT INTO field_instance_config (entity_type, bundle, field_name, label, description)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (entity_type, bundle, field_name) DO NOTHING`,
		cfg.EntityType, cfg.Bundle, cfg.FieldName, cfg.Label, cfg.Description,
	)
	if err != nil {
		return false, fmt.Errorf("seed field config %s.%s.%s: %w", cfg.EntityType, cfg.Bundle, cfg.FieldName, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Ping checks the pool.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close does nothing; the pool belongs to infrastructure.DatabaseClients.
func (s *PostgresStore) Close() error { return nil }
