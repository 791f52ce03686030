package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

// Catalog is the YAML description of the entity types, their bundles and
// the fields attached to them.
//
//	entity_types:
//	  - id: node
//	    label: Content
//	    fieldable: true
//	    base_fields:
//	      - {name: title, type: string, label: Title}
//	    field_storage:
//	      - {name: field_summary, type: text_long}
//	    bundles:
//	      - id: article
//	        label: Article
//	        fields:
//	          - {name: field_summary, label: Summary, description: Shown in teasers.}
//	        form_display: {field_summary: 2}
type Catalog struct {
	EntityTypes []CatalogEntityType `yaml:"entity_types"`
}

// CatalogEntityType declares one entity type.
type CatalogEntityType struct {
	ID           string           `yaml:"id"`
	Label        string           `yaml:"label"`
	Fieldable    bool             `yaml:"fieldable"`
	BaseFields   []CatalogField   `yaml:"base_fields"`
	FieldStorage []CatalogStorage `yaml:"field_storage"`
	Bundles      []CatalogBundle  `yaml:"bundles"`
}

// CatalogStorage declares a configurable field storage.
type CatalogStorage struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// CatalogField declares a base field or a field instance on a bundle.
// Type is only read for base fields; instances take it from their storage.
type CatalogField struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// CatalogBundle declares one bundle and its field instances.
type CatalogBundle struct {
	ID          string         `yaml:"id"`
	Label       string         `yaml:"label"`
	Fields      []CatalogField `yaml:"fields"`
	FormDisplay map[string]int `yaml:"form_display"`
}

// LoadCatalog reads and validates the catalog file at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks identifiers are present and unique and that every field
// instance refers to a declared storage.
func (c *Catalog) Validate() error {
	seenTypes := make(map[string]bool, len(c.EntityTypes))
	for _, et := range c.EntityTypes {
		if et.ID == "" {
			return fmt.Errorf("%w: entity type without id", apperrors.ErrInvalidConfig)
		}
		if seenTypes[et.ID] {
			return fmt.Errorf("%w: duplicate entity type %q", apperrors.ErrInvalidConfig, et.ID)
		}
		seenTypes[et.ID] = true

		base := make(map[string]bool, len(et.BaseFields))
		for _, f := range et.BaseFields {
			if f.Name == "" {
				return fmt.Errorf("%w: %s: base field without name", apperrors.ErrInvalidConfig, et.ID)
			}
			base[f.Name] = true
		}

		storage := make(map[string]bool, len(et.FieldStorage))
		for _, s := range et.FieldStorage {
			if s.Name == "" || s.Type == "" {
				return fmt.Errorf("%w: %s: field storage needs name and type", apperrors.ErrInvalidConfig, et.ID)
			}
			if base[s.Name] {
				return fmt.Errorf("%w: %s: field storage %q shadows a base field", apperrors.ErrInvalidConfig, et.ID, s.Name)
			}
			storage[s.Name] = true
		}

		seenBundles := make(map[string]bool, len(et.Bundles))
		for _, b := range et.Bundles {
			if b.ID == "" {
				return fmt.Errorf("%w: %s: bundle without id", apperrors.ErrInvalidConfig, et.ID)
			}
			if seenBundles[b.ID] {
				return fmt.Errorf("%w: %s: duplicate bundle %q", apperrors.ErrInvalidConfig, et.ID, b.ID)
			}
			seenBundles[b.ID] = true

			seenFields := make(map[string]bool, len(b.Fields))
			for _, f := range b.Fields {
				if !storage[f.Name] {
					return fmt.Errorf("%w: %s.%s: field %q has no field storage", apperrors.ErrInvalidConfig, et.ID, b.ID, f.Name)
				}
				if seenFields[f.Name] {
					return fmt.Errorf("%w: %s.%s: duplicate field %q", apperrors.ErrInvalidConfig, et.ID, b.ID, f.Name)
				}
				seenFields[f.Name] = true
			}
		}
	}
	return nil
}

// InstanceConfigs returns the field instance configs declared by the
// catalog, in declaration order. They seed an empty store.
func (c *Catalog) InstanceConfigs() []domain.FieldInstanceConfig {
	var out []domain.FieldInstanceConfig
	for _, et := range c.EntityTypes {
		for _, b := range et.Bundles {
			for _, f := range b.Fields {
				out = append(out, domain.FieldInstanceConfig{
					EntityType:  et.ID,
					Bundle:      b.ID,
					FieldName:   f.Name,
					Label:       f.Label,
					Description: f.Description,
				})
			}
		}
	}
	return out
}
