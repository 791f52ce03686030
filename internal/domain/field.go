// Package domain holds the entity and field metadata types shared by the
// metadata provider, the route parameter converters and the edit forms.
package domain

import "sort"

// Form element weights. Fields missing from a bundle's default form display
// sort after every configured field; the submit action always comes last.
const (
	DefaultFieldWeight = 998
	SubmitWeight       = 999
)

// EntityType describes a content entity type such as "node" or "user".
type EntityType struct {
	ID    string
	Label string

	// Fieldable marks entity types that accept attached custom fields.
	Fieldable bool
}

// Bundle is a named sub-type of an entity type.
type Bundle struct {
	ID    string
	Label string
}

// FieldDefinition is one field as seen on a specific bundle.
type FieldDefinition struct {
	Name        string
	Type        string
	Label       string
	Description string

	// Base is set for fields defined by the entity type itself.
	Base bool
}

// FieldStorage is the bundle-independent storage of a configurable field.
type FieldStorage struct {
	Name string
	Type string
}

// FieldMapEntry lists the bundles a field is used on, in bundle
// declaration order.
type FieldMapEntry struct {
	Type    string
	Bundles []string
}

// FieldMap maps entity type → field name → usage.
type FieldMap map[string]map[string]FieldMapEntry

// Bundles returns the bundles field is attached to on entityType, or nil.
func (m FieldMap) Bundles(entityType, field string) []string {
	fields, ok := m[entityType]
	if !ok {
		return nil
	}
	return fields[field].Bundles
}

// FieldInstanceConfig is the persisted per-bundle record holding a custom
// field's label and help text.
type FieldInstanceConfig struct {
	EntityType  string
	Bundle      string
	FieldName   string
	Label       string
	Description string
}

// SetLabel replaces the label in memory. Persisting is the caller's job.
func (c *FieldInstanceConfig) SetLabel(label string) {
	c.Label = label
}

// SetDescription replaces the help text in memory.
func (c *FieldInstanceConfig) SetDescription(description string) {
	c.Description = description
}

// Key identifies the record within a store.
func (c *FieldInstanceConfig) Key() InstanceKey {
	return InstanceKey{EntityType: c.EntityType, Bundle: c.Bundle, FieldName: c.FieldName}
}

// InstanceKey addresses one field instance.
type InstanceKey struct {
	EntityType string
	Bundle     string
	FieldName  string
}

// CustomFields returns the fields whose names are not base field names,
// preserving the input order.
func CustomFields(fields []FieldDefinition, base map[string]FieldDefinition) []FieldDefinition {
	out := make([]FieldDefinition, 0, len(fields))
	for _, f := range fields {
		if _, isBase := base[f.Name]; isBase {
			continue
		}
		out = append(out, f)
	}
	return out
}

// CustomFieldNames returns the sorted names in fields that are not in base.
func CustomFieldNames(fields map[string]FieldMapEntry, base map[string]FieldDefinition) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, isBase := base[name]; isBase {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
