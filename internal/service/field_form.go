package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
	"fieldhelptext.io/fieldhelptext/internal/provider"
)

// EmptyDescription is shown for instances without help text.
const EmptyDescription = "(Empty description)"

// FieldPayload is captured when the field form is rendered and sent back
// unchanged with the submission.
type FieldPayload struct {
	EntityType string
	FieldName  string
	Bundles    []string
}

// FieldFormSpec describes the field edit form.
type FieldFormSpec struct {
	Title       string
	Label       TextInput
	Description TextArea
	AllowedTags string
	TokenNotice string
	ApplyTo     CheckboxGroup
	Submit      Action
	Payload     FieldPayload
}

// FieldSubmission is a posted field form.
type FieldSubmission struct {
	Payload     FieldPayload
	Label       string
	Description string

	// ApplyTo lists the checked bundles.
	ApplyTo []string
}

// FieldForm edits one field's label and help text across the bundles it is
// attached to.
type FieldForm struct {
	meta      provider.MetadataProvider
	sanitizer *Sanitizer
}

// NewFieldForm creates a FieldForm.
func NewFieldForm(meta provider.MetadataProvider, sanitizer *Sanitizer) *FieldForm {
	return &FieldForm{meta: meta, sanitizer: sanitizer}
}

// Render builds the form for one field. The shared label and description
// defaults come from the first instance, in field map bundle order, that has
// a non-empty value; label and description are picked independently.
func (f *FieldForm) Render(ctx context.Context, entityType, fieldName string) (*FieldFormSpec, error) {
	fm, err := f.meta.FieldMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("field map: %w", err)
	}
	bundles := fm.Bundles(entityType, fieldName)
	if len(bundles) == 0 {
		return nil, apperrors.ErrFieldNotFoundf(entityType, fieldName)
	}

	spec := &FieldFormSpec{
		Title:       fmt.Sprintf("Edit help text for %s across all %s bundles", fieldName, entityType),
		Label:       TextInput{Name: "label", Title: "Label"},
		Description: TextArea{Name: "description", Title: "Description", Rows: 2},
		AllowedTags: AllowedTagsNotice(),
		TokenNotice: TokenNotice,
		ApplyTo: CheckboxGroup{
			Name:  "apply_to",
			Title: fmt.Sprintf("Update %s field instances", entityType),
		},
		Submit: Action{Label: SubmitLabel, Weight: domain.SubmitWeight},
		Payload: FieldPayload{
			EntityType: entityType,
			FieldName:  fieldName,
			Bundles:    append([]string(nil), bundles...),
		},
	}

	for _, bundle := range bundles {
		cfg, err := f.meta.FieldInstanceConfig(ctx, entityType, bundle, fieldName)
		if err != nil {
			return nil, fmt.Errorf("field config %s.%s.%s: %w", entityType, bundle, fieldName, err)
		}

		hint := template.HTML(EmptyDescription)
		if cfg.Description != "" {
			hint = f.sanitizer.Sanitize(cfg.Description)
		}
		spec.ApplyTo.Options = append(spec.ApplyTo.Options, Checkbox{
			Value:   bundle,
			Title:   fmt.Sprintf("%s (%s on %s)", cfg.Label, fieldName, bundle),
			Hint:    hint,
			Checked: true,
		})

		if spec.Label.Default == "" && cfg.Label != "" {
			spec.Label.Default = cfg.Label
		}
		if spec.Description.Default == "" && cfg.Description != "" {
			spec.Description.Default = cfg.Description
		}
	}
	return spec, nil
}

// Submit applies the shared label and description to every checked bundle
// whose instance differs. Checked bundles outside the payload are ignored.
func (f *FieldForm) Submit(ctx context.Context, sub FieldSubmission) (*SubmitResult, error) {
	p := sub.Payload
	checked := make(map[string]bool, len(sub.ApplyTo))
	for _, bundle := range sub.ApplyTo {
		checked[bundle] = true
	}

	result := &SubmitResult{}
	for _, bundle := range p.Bundles {
		if !checked[bundle] {
			continue
		}
		cfg, err := f.meta.FieldInstanceConfig(ctx, p.EntityType, bundle, p.FieldName)
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Skipping bundle no longer using field",
				zap.String("entity_type", p.EntityType),
				zap.String("bundle", bundle),
				zap.String("field", p.FieldName),
			)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("field config %s.%s.%s: %w", p.EntityType, bundle, p.FieldName, err)
		}
		if cfg.Label == sub.Label && cfg.Description == sub.Description {
			continue
		}
		cfg.SetLabel(sub.Label)
		cfg.SetDescription(sub.Description)
		if err := f.meta.SaveFieldInstanceConfig(ctx, cfg); err != nil {
			return result, apperrors.ErrFieldConfigSavef(err, p.EntityType, bundle, p.FieldName)
		}
		logger.Info("Field label and help text updated",
			zap.String("entity_type", p.EntityType),
			zap.String("bundle", bundle),
			zap.String("field", p.FieldName),
		)
		result.Notices = append(result.Notices,
			fmt.Sprintf("Updated %s on %s %s.", p.FieldName, bundle, p.EntityType))
	}
	return result, nil
}
