package service

import (
	"context"
	"fmt"
	"net/url"
	"path"

	"go.uber.org/zap"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
	"fieldhelptext.io/fieldhelptext/internal/provider"
)

// Link is one navigation entry of the index page.
type Link struct {
	Label string
	Href  string
}

// LinkGroup holds the links of one entity type.
type LinkGroup struct {
	EntityType domain.EntityType
	Links      []Link
}

// Index is the navigation model of the index page.
type Index struct {
	ByBundle []LinkGroup
	ByField  []LinkGroup

	// FieldMapFailed is set when the by-field list could not be built.
	FieldMapFailed bool
}

// IndexBuilder lists the bundles and fields that have editable help text.
type IndexBuilder struct {
	meta     provider.MetadataProvider
	basePath string
}

// NewIndexBuilder creates an IndexBuilder. basePath prefixes every link.
func NewIndexBuilder(meta provider.MetadataProvider, basePath string) *IndexBuilder {
	return &IndexBuilder{meta: meta, basePath: basePath}
}

// BundlePath returns the bundle edit page path.
func BundlePath(basePath, entityType, bundle string) string {
	return path.Join(basePath, "bundle", url.PathEscape(entityType), url.PathEscape(bundle))
}

// FieldPath returns the field edit page path.
func FieldPath(basePath, entityType, fieldName string) string {
	return path.Join(basePath, "field", url.PathEscape(entityType), url.PathEscape(fieldName))
}

// Build assembles both navigation lists. Entity types whose metadata
// cannot be read are logged and left out; only listing the entity types
// fails the whole build.
func (b *IndexBuilder) Build(ctx context.Context) (*Index, error) {
	types, err := b.meta.FieldableEntityTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fieldable entity types: %w", err)
	}

	idx := &Index{}
	bases := make(map[string]map[string]domain.FieldDefinition, len(types))
	for _, et := range types {
		base, err := b.meta.BaseFields(ctx, et.ID)
		if err != nil {
			logger.Warn("Skipping entity type in help text index",
				zap.String("entity_type", et.ID), zap.Error(err))
			continue
		}
		bases[et.ID] = base

		links, err := b.bundleLinks(ctx, et.ID, base)
		if err != nil {
			logger.Warn("Skipping entity type bundles in help text index",
				zap.String("entity_type", et.ID), zap.Error(err))
			continue
		}
		if len(links) > 0 {
			idx.ByBundle = append(idx.ByBundle, LinkGroup{EntityType: et, Links: links})
		}
	}

	fm, err := b.meta.FieldMap(ctx)
	if err != nil {
		logger.Error("Field map unavailable, omitting by-field index", zap.Error(err))
		idx.FieldMapFailed = true
		return idx, nil
	}
	for _, et := range types {
		base, ok := bases[et.ID]
		if !ok {
			continue
		}
		fields := fm[et.ID]
		names := domain.CustomFieldNames(fields, base)
		if len(names) == 0 {
			continue
		}
		group := LinkGroup{EntityType: et, Links: make([]Link, 0, len(names))}
		for _, name := range names {
			group.Links = append(group.Links, Link{
				Label: fmt.Sprintf("%s (%s)", name, fields[name].Type),
				Href:  FieldPath(b.basePath, et.ID, name),
			})
		}
		idx.ByField = append(idx.ByField, group)
	}
	return idx, nil
}

func (b *IndexBuilder) bundleLinks(ctx context.Context, entityType string, base map[string]domain.FieldDefinition) ([]Link, error) {
	bundles, err := b.meta.Bundles(ctx, entityType)
	if err != nil {
		return nil, err
	}
	var links []Link
	for _, bundle := range bundles {
		defs, err := b.meta.FieldDefinitions(ctx, entityType, bundle.ID)
		if err != nil {
			return nil, err
		}
		if len(domain.CustomFields(defs, base)) == 0 {
			continue
		}
		links = append(links, Link{
			Label: bundle.ID,
			Href:  BundlePath(b.basePath, entityType, bundle.ID),
		})
	}
	return links, nil
}
