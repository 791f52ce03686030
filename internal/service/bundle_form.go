package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
	"fieldhelptext.io/fieldhelptext/internal/provider"
)

// BundlePayload is captured when the bundle form is rendered and sent back
// unchanged with the submission.
type BundlePayload struct {
	EntityType string
	Bundle     string
	FieldNames []string
}

// BundleFormSpec describes the bundle edit form.
type BundleFormSpec struct {
	Title       string
	AllowedTags string
	TokenNotice string
	Fields      []TextArea
	Submit      Action
	Payload     BundlePayload
}

// BundleSubmission is a posted bundle form. Values maps field name to the
// submitted help text.
type BundleSubmission struct {
	Payload BundlePayload
	Values  map[string]string
}

// BundleForm edits the help text of every custom field on one bundle.
type BundleForm struct {
	meta    provider.MetadataProvider
	display provider.FormDisplayProvider
}

// NewBundleForm creates a BundleForm.
func NewBundleForm(meta provider.MetadataProvider, display provider.FormDisplayProvider) *BundleForm {
	return &BundleForm{meta: meta, display: display}
}

// customFields returns the bundle's fields minus the entity type's base fields.
func customFields(ctx context.Context, meta provider.MetadataProvider, entityType, bundle string) ([]domain.FieldDefinition, error) {
	defs, err := meta.FieldDefinitions(ctx, entityType, bundle)
	if err != nil {
		return nil, fmt.Errorf("field definitions %s.%s: %w", entityType, bundle, err)
	}
	base, err := meta.BaseFields(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("base fields %s: %w", entityType, err)
	}
	return domain.CustomFields(defs, base), nil
}

func (f *BundleForm) weights(ctx context.Context, entityType, bundle string) (map[string]int, error) {
	weights, err := f.display.DefaultFormDisplay(ctx, entityType, bundle)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("form display %s.%s: %w", entityType, bundle, err)
	}
	return weights, nil
}

// Render builds the form for one bundle. Fields are ordered by form display
// weight, then by name.
func (f *BundleForm) Render(ctx context.Context, entityType, bundle string) (*BundleFormSpec, error) {
	et, err := f.meta.EntityType(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("entity type %s: %w", entityType, err)
	}
	fields, err := customFields(ctx, f.meta, entityType, bundle)
	if err != nil {
		return nil, err
	}
	weights, err := f.weights(ctx, entityType, bundle)
	if err != nil {
		return nil, err
	}

	spec := &BundleFormSpec{
		Title:       fmt.Sprintf("Edit help text for %s %s fields", bundle, et.Label),
		AllowedTags: AllowedTagsNotice(),
		TokenNotice: TokenNotice,
		Fields:      make([]TextArea, 0, len(fields)),
		Submit:      Action{Label: SubmitLabel, Weight: domain.SubmitWeight},
		Payload:     BundlePayload{EntityType: entityType, Bundle: bundle},
	}
	for _, field := range fields {
		weight, ok := weights[field.Name]
		if !ok {
			weight = domain.DefaultFieldWeight
		}
		spec.Fields = append(spec.Fields, TextArea{
			Name:    field.Name,
			Title:   field.Label,
			Default: field.Description,
			Hint:    "Field type: " + field.Type,
			Rows:    2,
			Weight:  weight,
		})
	}
	sort.SliceStable(spec.Fields, func(i, j int) bool {
		if spec.Fields[i].Weight != spec.Fields[j].Weight {
			return spec.Fields[i].Weight < spec.Fields[j].Weight
		}
		return spec.Fields[i].Name < spec.Fields[j].Name
	})
	for _, ta := range spec.Fields {
		spec.Payload.FieldNames = append(spec.Payload.FieldNames, ta.Name)
	}
	return spec, nil
}

// Submit saves every field in the payload whose help text changed. Names
// that are no longer custom fields of the bundle, or that were not posted,
// are skipped. A failed save stops the loop; earlier saves stay applied.
func (f *BundleForm) Submit(ctx context.Context, sub BundleSubmission) (*SubmitResult, error) {
	p := sub.Payload
	fields, err := customFields(ctx, f.meta, p.EntityType, p.Bundle)
	if err != nil {
		return nil, err
	}
	custom := make(map[string]bool, len(fields))
	for _, field := range fields {
		custom[field.Name] = true
	}

	result := &SubmitResult{}
	for _, name := range p.FieldNames {
		if !custom[name] {
			logger.Warn("Skipping field no longer on bundle",
				zap.String("entity_type", p.EntityType),
				zap.String("bundle", p.Bundle),
				zap.String("field", name),
			)
			continue
		}
		value, posted := sub.Values[name]
		if !posted {
			continue
		}

		cfg, err := f.meta.FieldInstanceConfig(ctx, p.EntityType, p.Bundle, name)
		if err != nil {
			return result, fmt.Errorf("field config %s.%s.%s: %w", p.EntityType, p.Bundle, name, err)
		}
		if cfg.Description == value {
			continue
		}
		cfg.SetDescription(value)
		if err := f.meta.SaveFieldInstanceConfig(ctx, cfg); err != nil {
			return result, apperrors.ErrFieldConfigSavef(err, p.EntityType, p.Bundle, name)
		}
		logger.Info("Field help text updated",
			zap.String("entity_type", p.EntityType),
			zap.String("bundle", p.Bundle),
			zap.String("field", name),
		)
		result.Notices = append(result.Notices,
			fmt.Sprintf("Updated help text for %s on %s %s.", name, p.Bundle, p.EntityType))
	}
	return result, nil
}
