package provider

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

var (
	_ MetadataProvider    = (*MockProvider)(nil)
	_ FormDisplayProvider = (*MockProvider)(nil)
)

// MockProvider implements MetadataProvider and FormDisplayProvider in
// memory for tests. Unlike CatalogProvider its FieldMap also covers
// non-fieldable entity types, and failures can be injected per entity type.
type MockProvider struct {
	mu sync.RWMutex

	entityTypes map[string]domain.EntityType
	base        map[string][]domain.FieldDefinition
	bundles     map[string][]domain.Bundle
	fields      map[string]map[string][]domain.FieldDefinition // entity type → bundle → custom fields
	displays    map[string]map[string]map[string]int
	configs     map[domain.InstanceKey]domain.FieldInstanceConfig

	entityTypeErrs map[string]error
	fieldMapErr    error
	saveErr        error
	saveErrAfter   int
	saves          []domain.FieldInstanceConfig
}

// NewMockProvider creates an empty MockProvider.
func NewMockProvider() *MockProvider {
	p := &MockProvider{}
	p.Reset()
	return p
}

// Reset clears all mock data and injected failures.
func (p *MockProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entityTypes = make(map[string]domain.EntityType)
	p.base = make(map[string][]domain.FieldDefinition)
	p.bundles = make(map[string][]domain.Bundle)
	p.fields = make(map[string]map[string][]domain.FieldDefinition)
	p.displays = make(map[string]map[string]map[string]int)
	p.configs = make(map[domain.InstanceKey]domain.FieldInstanceConfig)
	p.entityTypeErrs = make(map[string]error)
	p.fieldMapErr = nil
	p.saveErr = nil
	p.saveErrAfter = 0
	p.saves = nil
}

// AddEntityType registers an entity type with its base fields.
func (p *MockProvider) AddEntityType(et domain.EntityType, baseFields ...domain.FieldDefinition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entityTypes[et.ID] = et
	for i := range baseFields {
		baseFields[i].Base = true
	}
	p.base[et.ID] = baseFields
	p.fields[et.ID] = make(map[string][]domain.FieldDefinition)
}

// AddBundle registers a bundle and its custom fields. Each field's label
// and description become the bundle's stored instance config.
func (p *MockProvider) AddBundle(entityType string, bundle domain.Bundle, fields ...domain.FieldDefinition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bundles[entityType] = append(p.bundles[entityType], bundle)
	if p.fields[entityType] == nil {
		p.fields[entityType] = make(map[string][]domain.FieldDefinition)
	}
	p.fields[entityType][bundle.ID] = fields
	for _, f := range fields {
		cfg := domain.FieldInstanceConfig{
			EntityType:  entityType,
			Bundle:      bundle.ID,
			FieldName:   f.Name,
			Label:       f.Label,
			Description: f.Description,
		}
		p.configs[cfg.Key()] = cfg
	}
}

// SetFormDisplay sets the default form display weights of a bundle.
func (p *MockProvider) SetFormDisplay(entityType, bundle string, weights map[string]int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.displays[entityType] == nil {
		p.displays[entityType] = make(map[string]map[string]int)
	}
	p.displays[entityType][bundle] = weights
}

// FailEntityType makes every per-entity-type lookup of entityType return err.
func (p *MockProvider) FailEntityType(entityType string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entityTypeErrs[entityType] = err
}

// FailFieldMap makes FieldMap return err.
func (p *MockProvider) FailFieldMap(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fieldMapErr = err
}

// FailSavesAfter lets n saves succeed and fails every later one with err.
func (p *MockProvider) FailSavesAfter(n int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveErrAfter = n
	p.saveErr = err
}

// Saves returns the records passed to successful SaveFieldInstanceConfig calls.
func (p *MockProvider) Saves() []domain.FieldInstanceConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.FieldInstanceConfig(nil), p.saves...)
}

func (p *MockProvider) lookup(entityType string) error {
	if err := p.entityTypeErrs[entityType]; err != nil {
		return err
	}
	if _, ok := p.entityTypes[entityType]; !ok {
		return fmt.Errorf("entity type %q: %w", entityType, apperrors.ErrNotFound)
	}
	return nil
}

func (p *MockProvider) FieldableEntityTypes(context.Context) ([]domain.EntityType, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []domain.EntityType
	for _, et := range p.entityTypes {
		if et.Fieldable {
			out = append(out, et)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *MockProvider) EntityType(_ context.Context, id string) (*domain.EntityType, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.lookup(id); err != nil {
		return nil, err
	}
	et := p.entityTypes[id]
	return &et, nil
}

func (p *MockProvider) Bundles(_ context.Context, entityType string) ([]domain.Bundle, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.lookup(entityType); err != nil {
		return nil, err
	}
	return append([]domain.Bundle(nil), p.bundles[entityType]...), nil
}

func (p *MockProvider) BaseFields(_ context.Context, entityType string) (map[string]domain.FieldDefinition, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.lookup(entityType); err != nil {
		return nil, err
	}
	out := make(map[string]domain.FieldDefinition, len(p.base[entityType]))
	for _, f := range p.base[entityType] {
		out[f.Name] = f
	}
	return out, nil
}

func (p *MockProvider) FieldDefinitions(_ context.Context, entityType, bundle string) ([]domain.FieldDefinition, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.lookup(entityType); err != nil {
		return nil, err
	}
	custom, ok := p.fields[entityType][bundle]
	if !ok {
		return nil, fmt.Errorf("bundle %s.%s: %w", entityType, bundle, apperrors.ErrNotFound)
	}
	out := append([]domain.FieldDefinition(nil), p.base[entityType]...)
	for _, f := range custom {
		if cfg, ok := p.configs[domain.InstanceKey{EntityType: entityType, Bundle: bundle, FieldName: f.Name}]; ok {
			f.Label = cfg.Label
			f.Description = cfg.Description
		}
		out = append(out, f)
	}
	return out, nil
}

func (p *MockProvider) FieldStorageDefinitions(_ context.Context, entityType string) (map[string]domain.FieldStorage, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.lookup(entityType); err != nil {
		return nil, err
	}
	out := make(map[string]domain.FieldStorage)
	for _, fields := range p.fields[entityType] {
		for _, f := range fields {
			out[f.Name] = domain.FieldStorage{Name: f.Name, Type: f.Type}
		}
	}
	return out, nil
}

func (p *MockProvider) FieldMap(context.Context) (domain.FieldMap, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.fieldMapErr != nil {
		return nil, p.fieldMapErr
	}
	fm := make(domain.FieldMap)
	for id := range p.entityTypes {
		fields := make(map[string]domain.FieldMapEntry)
		for _, b := range p.bundles[id] {
			for _, f := range p.base[id] {
				entry := fields[f.Name]
				entry.Type = f.Type
				entry.Bundles = append(entry.Bundles, b.ID)
				fields[f.Name] = entry
			}
			for _, f := range p.fields[id][b.ID] {
				entry := fields[f.Name]
				entry.Type = f.Type
				entry.Bundles = append(entry.Bundles, b.ID)
				fields[f.Name] = entry
			}
		}
		fm[id] = fields
	}
	return fm, nil
}

func (p *MockProvider) FieldInstanceConfig(_ context.Context, entityType, bundle, fieldName string) (*domain.FieldInstanceConfig, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.lookup(entityType); err != nil {
		return nil, err
	}
	cfg, ok := p.configs[domain.InstanceKey{EntityType: entityType, Bundle: bundle, FieldName: fieldName}]
	if !ok {
		return nil, fmt.Errorf("field %s.%s.%s: %w", entityType, bundle, fieldName, apperrors.ErrNotFound)
	}
	return &cfg, nil
}

func (p *MockProvider) SaveFieldInstanceConfig(_ context.Context, cfg *domain.FieldInstanceConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil && len(p.saves) >= p.saveErrAfter {
		return p.saveErr
	}
	if _, ok := p.configs[cfg.Key()]; !ok {
		return fmt.Errorf("field %s.%s.%s: %w", cfg.EntityType, cfg.Bundle, cfg.FieldName, apperrors.ErrNotFound)
	}
	p.configs[cfg.Key()] = *cfg
	p.saves = append(p.saves, *cfg)
	return nil
}

func (p *MockProvider) DefaultFormDisplay(_ context.Context, entityType, bundle string) (map[string]int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	weights, ok := p.displays[entityType][bundle]
	if !ok {
		return nil, fmt.Errorf("form display %s.%s: %w", entityType, bundle, apperrors.ErrNotFound)
	}
	return maps.Clone(weights), nil
}
