package paramconv

import (
	"context"
	"errors"
	"net/http"

	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
	"fieldhelptext.io/fieldhelptext/internal/provider"
)

// notFoundOr keeps lookup failures other than "not found" visible to the
// caller and maps the rest to notFound.
func notFoundOr(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(err, apperrors.CodeMetadataUnavailable, "metadata lookup failed", http.StatusInternalServerError)
}

// EntityTypeConverter resolves an entity type id to its definition.
type EntityTypeConverter struct {
	meta provider.MetadataProvider
}

// NewEntityTypeConverter returns a converter for entity type parameters.
func NewEntityTypeConverter(meta provider.MetadataProvider) *EntityTypeConverter {
	return &EntityTypeConverter{meta: meta}
}

// Kind returns KindEntityType.
func (c *EntityTypeConverter) Kind() Kind { return KindEntityType }

// Applies reports whether def is an entity type parameter.
func (c *EntityTypeConverter) Applies(def Definition) bool { return def.Kind == KindEntityType }

// Convert sets params.EntityType, or fails with a not found error for an
// unknown id.
func (c *EntityTypeConverter) Convert(ctx context.Context, raw string, params Params) (Params, error) {
	et, err := c.meta.EntityType(ctx, raw)
	if err != nil {
		return Params{}, notFoundOr(err, apperrors.ErrEntityTypeNotFoundf(raw))
	}
	params.EntityType = et
	return params, nil
}

// BundleConverter accepts a bundle id that belongs to the already resolved
// entity type.
type BundleConverter struct {
	meta provider.MetadataProvider
}

// NewBundleConverter returns a converter for bundle parameters.
func NewBundleConverter(meta provider.MetadataProvider) *BundleConverter {
	return &BundleConverter{meta: meta}
}

// Kind returns KindBundle.
func (c *BundleConverter) Kind() Kind { return KindBundle }

// Applies reports whether def is a bundle parameter.
func (c *BundleConverter) Applies(def Definition) bool { return def.Kind == KindBundle }

// Convert sets params.Bundle. The entity type parameter must already be
// resolved.
func (c *BundleConverter) Convert(ctx context.Context, raw string, params Params) (Params, error) {
	if params.EntityType == nil {
		return Params{}, apperrors.ErrBundleNotFoundf("", raw)
	}
	etID := params.EntityType.ID
	bundles, err := c.meta.Bundles(ctx, etID)
	if err != nil {
		return Params{}, notFoundOr(err, apperrors.ErrBundleNotFoundf(etID, raw))
	}
	for _, b := range bundles {
		if b.ID == raw {
			params.Bundle = raw
			return params, nil
		}
	}
	return Params{}, apperrors.ErrBundleNotFoundf(etID, raw)
}

// FieldNameConverter accepts a field name that has configurable storage on
// the already resolved entity type.
type FieldNameConverter struct {
	meta provider.MetadataProvider
}

// NewFieldNameConverter returns a converter for field name parameters.
func NewFieldNameConverter(meta provider.MetadataProvider) *FieldNameConverter {
	return &FieldNameConverter{meta: meta}
}

// Kind returns KindFieldName.
func (c *FieldNameConverter) Kind() Kind { return KindFieldName }

// Applies reports whether def is a field name parameter.
func (c *FieldNameConverter) Applies(def Definition) bool { return def.Kind == KindFieldName }

// Convert sets params.FieldName. The entity type parameter must already be
// resolved.
func (c *FieldNameConverter) Convert(ctx context.Context, raw string, params Params) (Params, error) {
	if params.EntityType == nil {
		return Params{}, apperrors.ErrFieldNotFoundf("", raw)
	}
	etID := params.EntityType.ID
	storage, err := c.meta.FieldStorageDefinitions(ctx, etID)
	if err != nil {
		return Params{}, notFoundOr(err, apperrors.ErrFieldNotFoundf(etID, raw))
	}
	if _, ok := storage[raw]; !ok {
		return Params{}, apperrors.ErrFieldNotFoundf(etID, raw)
	}
	params.FieldName = raw
	return params, nil
}
