// Package repository persists field instance configuration records.
//
// Three FieldConfigStore implementations share one contract: an in-memory
// map for development and tests, PostgreSQL through pgxpool, and an embedded
// SQLite file through database/sql.
package repository

import (
	"context"

	"fieldhelptext.io/fieldhelptext/internal/domain"
)

// FieldConfigStore reads and writes field instance configs.
// Each Save is atomic for its record; there is no multi-record transaction.
type FieldConfigStore interface {
	// Get returns the stored record or apperrors.ErrNotFound.
	Get(ctx context.Context, key domain.InstanceKey) (*domain.FieldInstanceConfig, error)

	// Save inserts or replaces the record.
	Save(ctx context.Context, cfg *domain.FieldInstanceConfig) error

	// InsertIfAbsent stores cfg only when no record exists for its key and
	// reports whether it did.
	InsertIfAbsent(ctx context.Context, cfg *domain.FieldInstanceConfig) (bool, error)

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
