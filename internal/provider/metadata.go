package provider

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
	"fieldhelptext.io/fieldhelptext/internal/repository"
)

var (
	_ MetadataProvider    = (*CatalogProvider)(nil)
	_ FormDisplayProvider = (*CatalogProvider)(nil)
)

// CatalogProvider serves structure from a Catalog and field labels and
// descriptions from a FieldConfigStore. Instances missing from the store
// fall back to the values declared in the catalog.
type CatalogProvider struct {
	catalog *Catalog
	byID    map[string]*CatalogEntityType
	store   repository.FieldConfigStore
}

// NewCatalogProvider creates a CatalogProvider.
func NewCatalogProvider(catalog *Catalog, store repository.FieldConfigStore) *CatalogProvider {
	byID := make(map[string]*CatalogEntityType, len(catalog.EntityTypes))
	for i := range catalog.EntityTypes {
		byID[catalog.EntityTypes[i].ID] = &catalog.EntityTypes[i]
	}
	return &CatalogProvider{catalog: catalog, byID: byID, store: store}
}

func (p *CatalogProvider) entityType(id string) (*CatalogEntityType, error) {
	et, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("entity type %q: %w", id, apperrors.ErrNotFound)
	}
	return et, nil
}

func (p *CatalogProvider) bundle(entityType, bundle string) (*CatalogEntityType, *CatalogBundle, error) {
	et, err := p.entityType(entityType)
	if err != nil {
		return nil, nil, err
	}
	for i := range et.Bundles {
		if et.Bundles[i].ID == bundle {
			return et, &et.Bundles[i], nil
		}
	}
	return nil, nil, fmt.Errorf("bundle %s.%s: %w", entityType, bundle, apperrors.ErrNotFound)
}

func (p *CatalogProvider) instance(entityType, bundle, fieldName string) (*CatalogField, error) {
	_, b, err := p.bundle(entityType, bundle)
	if err != nil {
		return nil, err
	}
	for i := range b.Fields {
		if b.Fields[i].Name == fieldName {
			return &b.Fields[i], nil
		}
	}
	return nil, fmt.Errorf("field %s.%s.%s: %w", entityType, bundle, fieldName, apperrors.ErrNotFound)
}

func storageType(et *CatalogEntityType, name string) string {
	for _, s := range et.FieldStorage {
		if s.Name == name {
			return s.Type
		}
	}
	return ""
}

// FieldableEntityTypes implements MetadataProvider.
func (p *CatalogProvider) FieldableEntityTypes(context.Context) ([]domain.EntityType, error) {
	var out []domain.EntityType
	for _, et := range p.catalog.EntityTypes {
		if !et.Fieldable {
			continue
		}
		out = append(out, domain.EntityType{ID: et.ID, Label: et.Label, Fieldable: true})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// EntityType implements MetadataProvider.
func (p *CatalogProvider) EntityType(_ context.Context, id string) (*domain.EntityType, error) {
	et, err := p.entityType(id)
	if err != nil {
		return nil, err
	}
	return &domain.EntityType{ID: et.ID, Label: et.Label, Fieldable: et.Fieldable}, nil
}

// Bundles implements MetadataProvider.
func (p *CatalogProvider) Bundles(_ context.Context, entityType string) ([]domain.Bundle, error) {
	et, err := p.entityType(entityType)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Bundle, 0, len(et.Bundles))
	for _, b := range et.Bundles {
		out = append(out, domain.Bundle{ID: b.ID, Label: b.Label})
	}
	return out, nil
}

// BaseFields implements MetadataProvider.
func (p *CatalogProvider) BaseFields(_ context.Context, entityType string) (map[string]domain.FieldDefinition, error) {
	et, err := p.entityType(entityType)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.FieldDefinition, len(et.BaseFields))
	for _, f := range et.BaseFields {
		out[f.Name] = domain.FieldDefinition{
			Name:        f.Name,
			Type:        f.Type,
			Label:       f.Label,
			Description: f.Description,
			Base:        true,
		}
	}
	return out, nil
}

// FieldDefinitions implements MetadataProvider. Base fields come first, in
// declaration order, followed by the bundle's field instances.
func (p *CatalogProvider) FieldDefinitions(ctx context.Context, entityType, bundle string) ([]domain.FieldDefinition, error) {
	et, b, err := p.bundle(entityType, bundle)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FieldDefinition, 0, len(et.BaseFields)+len(b.Fields))
	for _, f := range et.BaseFields {
		out = append(out, domain.FieldDefinition{
			Name:        f.Name,
			Type:        f.Type,
			Label:       f.Label,
			Description: f.Description,
			Base:        true,
		})
	}
	for _, f := range b.Fields {
		cfg, err := p.FieldInstanceConfig(ctx, entityType, bundle, f.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FieldDefinition{
			Name:        f.Name,
			Type:        storageType(et, f.Name),
			Label:       cfg.Label,
			Description: cfg.Description,
		})
	}
	return out, nil
}

// FieldStorageDefinitions implements MetadataProvider.
func (p *CatalogProvider) FieldStorageDefinitions(_ context.Context, entityType string) (map[string]domain.FieldStorage, error) {
	et, err := p.entityType(entityType)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.FieldStorage, len(et.FieldStorage))
	for _, s := range et.FieldStorage {
		out[s.Name] = domain.FieldStorage{Name: s.Name, Type: s.Type}
	}
	return out, nil
}

// FieldMap implements MetadataProvider. Only fieldable entity types are
// mapped; base fields are listed on every bundle.
func (p *CatalogProvider) FieldMap(context.Context) (domain.FieldMap, error) {
	fm := make(domain.FieldMap)
	for _, et := range p.catalog.EntityTypes {
		if !et.Fieldable {
			continue
		}
		bundleIDs := make([]string, 0, len(et.Bundles))
		for _, b := range et.Bundles {
			bundleIDs = append(bundleIDs, b.ID)
		}

		fields := make(map[string]domain.FieldMapEntry)
		for _, f := range et.BaseFields {
			fields[f.Name] = domain.FieldMapEntry{Type: f.Type, Bundles: append([]string(nil), bundleIDs...)}
		}
		for _, b := range et.Bundles {
			for _, f := range b.Fields {
				entry, ok := fields[f.Name]
				if !ok {
					entry.Type = storageType(&et, f.Name)
				}
				entry.Bundles = append(entry.Bundles, b.ID)
				fields[f.Name] = entry
			}
		}
		fm[et.ID] = fields
	}
	return fm, nil
}

// FieldInstanceConfig implements MetadataProvider.
func (p *CatalogProvider) FieldInstanceConfig(ctx context.Context, entityType, bundle, fieldName string) (*domain.FieldInstanceConfig, error) {
	declared, err := p.instance(entityType, bundle, fieldName)
	if err != nil {
		return nil, err
	}

	key := domain.InstanceKey{EntityType: entityType, Bundle: bundle, FieldName: fieldName}
	cfg, err := p.store.Get(ctx, key)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return &domain.FieldInstanceConfig{
		EntityType:  entityType,
		Bundle:      bundle,
		FieldName:   fieldName,
		Label:       declared.Label,
		Description: declared.Description,
	}, nil
}

// SaveFieldInstanceConfig implements MetadataProvider. Only instances
// declared in the catalog can be saved.
func (p *CatalogProvider) SaveFieldInstanceConfig(ctx context.Context, cfg *domain.FieldInstanceConfig) error {
	if _, err := p.instance(cfg.EntityType, cfg.Bundle, cfg.FieldName); err != nil {
		return err
	}
	return p.store.Save(ctx, cfg)
}

// DefaultFormDisplay implements FormDisplayProvider.
func (p *CatalogProvider) DefaultFormDisplay(_ context.Context, entityType, bundle string) (map[string]int, error) {
	_, b, err := p.bundle(entityType, bundle)
	if err != nil {
		return nil, err
	}
	if b.FormDisplay == nil {
		return nil, fmt.Errorf("form display %s.%s: %w", entityType, bundle, apperrors.ErrNotFound)
	}
	return maps.Clone(b.FormDisplay), nil
}
