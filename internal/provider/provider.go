// Package provider supplies entity type, bundle and field metadata to the
// index page and the edit forms, and persists field instance configs.
package provider

import (
	"context"

	"fieldhelptext.io/fieldhelptext/internal/domain"
)

// MetadataProvider is the entity/field metadata collaborator.
// Lookups of unknown entity types, bundles or fields return apperrors.ErrNotFound.
type MetadataProvider interface {
	// FieldableEntityTypes returns the entity types that accept custom
	// fields, sorted by ID.
	FieldableEntityTypes(ctx context.Context) ([]domain.EntityType, error)

	// EntityType returns one entity type definition.
	EntityType(ctx context.Context, id string) (*domain.EntityType, error)

	// Bundles returns the bundles of entityType in declaration order.
	Bundles(ctx context.Context, entityType string) ([]domain.Bundle, error)

	// BaseFields returns the fields the entity type defines on every bundle, keyed by name.
	BaseFields(ctx context.Context, entityType string) (map[string]domain.FieldDefinition, error)

	// FieldDefinitions returns base and custom fields of one bundle.
	FieldDefinitions(ctx context.Context, entityType, bundle string) ([]domain.FieldDefinition, error)

	// FieldStorageDefinitions returns the configurable field storages of
	// entityType, keyed by field name. Base fields have no storage entry.
	FieldStorageDefinitions(ctx context.Context, entityType string) (map[string]domain.FieldStorage, error)

	// FieldMap returns entity type → field name → {type, bundles}.
	FieldMap(ctx context.Context) (domain.FieldMap, error)

	// FieldInstanceConfig loads the per-bundle record of a custom field.
	FieldInstanceConfig(ctx context.Context, entityType, bundle, fieldName string) (*domain.FieldInstanceConfig, error)

	// SaveFieldInstanceConfig persists cfg.
	SaveFieldInstanceConfig(ctx context.Context, cfg *domain.FieldInstanceConfig) error
}

// FormDisplayProvider exposes the default form display of a bundle as
// field name → weight. Bundles without a form display return
// apperrors.ErrNotFound, which callers treat as "no weights".
type FormDisplayProvider interface {
	DefaultFormDisplay(ctx context.Context, entityType, bundle string) (map[string]int, error)
}
