// Package paramconv turns raw route segments into validated entity type,
// bundle and field name values before a page handler runs.
//
// Each route declares its parameters as a list of Definitions. A Registry
// maps each parameter Kind to the Converter for it, and Resolve runs them in
// order, passing earlier results to later converters.
package paramconv

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
	"fieldhelptext.io/fieldhelptext/internal/provider"
)

// Kind tags what a route parameter holds.
type Kind string

const (
	KindEntityType Kind = "entity_type"
	KindBundle     Kind = "bundle"
	KindFieldName  Kind = "field_name"
)

// Definition declares one route parameter.
type Definition struct {
	// Name is the path parameter name, e.g. "entity_type".
	Name string
	Kind Kind
}

// Route parameter lists of the edit pages.
var (
	BundleRoute = []Definition{
		{Name: "entity_type", Kind: KindEntityType},
		{Name: "bundle", Kind: KindBundle},
	}
	FieldRoute = []Definition{
		{Name: "entity_type", Kind: KindEntityType},
		{Name: "field_name", Kind: KindFieldName},
	}
)

// Params holds resolved route values. Later converters read the values
// earlier ones set.
type Params struct {
	EntityType *domain.EntityType
	Bundle     string
	FieldName  string
}

// Converter resolves one kind of route parameter.
type Converter interface {
	// Kind is the parameter kind the converter handles.
	Kind() Kind

	// Applies reports whether the converter handles def.
	Applies(def Definition) bool

	// Convert validates raw and returns params with the resolved value set.
	// Unknown values yield an error wrapping apperrors.ErrNotFound.
	Convert(ctx context.Context, raw string, params Params) (Params, error)
}

// Registry maps parameter kinds to converters.
type Registry struct {
	mu         sync.RWMutex
	converters map[Kind]Converter
}

// NewRegistry creates a registry holding the entity type, bundle and field
// name converters backed by meta. It panics if the built-in set conflicts.
func NewRegistry(meta provider.MetadataProvider) *Registry {
	r := &Registry{converters: map[Kind]Converter{}}
	for _, c := range []Converter{
		NewEntityTypeConverter(meta),
		NewBundleConverter(meta),
		NewFieldNameConverter(meta),
	} {
		r.mustRegister(c)
	}
	return r
}

func (r *Registry) mustRegister(c Converter) {
	if err := r.Register(c); err != nil {
		panic(fmt.Sprintf("paramconv: %v", err))
	}
}

// Register adds a converter. Duplicate kinds are rejected.
func (r *Registry) Register(c Converter) error {
	if c == nil {
		return fmt.Errorf("converter is nil")
	}
	k := c.Kind()
	if k == "" {
		return fmt.Errorf("converter kind is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.converters[k]; exists {
		return fmt.Errorf("converter already registered for kind %s", k)
	}
	r.converters[k] = c
	return nil
}

// Lookup returns the converter that applies to def.
func (r *Registry) Lookup(def Definition) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[def.Kind]
	if !ok || !c.Applies(def) {
		return nil, false
	}
	return c, true
}

// Resolve converts the raw values of defs in order. raw maps parameter
// names to path segments.
func (r *Registry) Resolve(ctx context.Context, defs []Definition, raw map[string]string) (Params, error) {
	var params Params
	for _, def := range defs {
		c, ok := r.Lookup(def)
		if !ok {
			return Params{}, apperrors.New(apperrors.CodeRouteParamInvalid,
				fmt.Sprintf("no converter for route parameter %s of kind %s", def.Name, def.Kind),
				http.StatusInternalServerError)
		}
		value, ok := raw[def.Name]
		if !ok || value == "" {
			return Params{}, apperrors.Wrap(apperrors.ErrNotFound, apperrors.CodeRouteParamInvalid,
				"missing route parameter", http.StatusNotFound).
				WithParams(map[string]string{"param": def.Name})
		}
		var err error
		params, err = c.Convert(ctx, value, params)
		if err != nil {
			return Params{}, err
		}
	}
	return params, nil
}
