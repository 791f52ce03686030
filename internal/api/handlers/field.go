package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldhelptext.io/fieldhelptext/internal/api/middleware"
	"fieldhelptext.io/fieldhelptext/internal/service"
)

// Form input names of the field edit page.
const (
	inputFieldName   = "payload_field_name"
	inputBundles     = "payload_bundles"
	inputLabel       = "label"
	inputDescription = "description"
	inputApplyTo     = "apply_to"
)

func (s *Server) renderFieldForm(c *gin.Context, entityType, fieldName string, notices []string) {
	spec, err := s.fieldForm.Render(c.Request.Context(), entityType, fieldName)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.HTML(http.StatusOK, "field_form.html", gin.H{
		"Title":     spec.Title,
		"Form":      spec,
		"Action":    c.Request.URL.Path,
		"Home":      s.basePath,
		"Notices":   notices,
		"FormToken": middleware.GetFormToken(c),
	})
}

// GetFieldForm handles GET .../field/:entity_type/:field_name.
func (s *Server) GetFieldForm(c *gin.Context) {
	params, ok := middleware.RouteParams(c)
	if !ok {
		_ = c.Error(formInvalid("route parameters not resolved"))
		return
	}
	s.renderFieldForm(c, params.EntityType.ID, params.FieldName, nil)
}

// PostFieldForm handles POST .../field/:entity_type/:field_name.
func (s *Server) PostFieldForm(c *gin.Context) {
	params, ok := middleware.RouteParams(c)
	if !ok {
		_ = c.Error(formInvalid("route parameters not resolved"))
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		_ = c.Error(formInvalid("malformed form body"))
		return
	}
	if c.PostForm(inputEntityType) != params.EntityType.ID || c.PostForm(inputFieldName) != params.FieldName {
		_ = c.Error(formInvalid("form does not belong to this field"))
		return
	}

	result, err := s.fieldForm.Submit(c.Request.Context(), service.FieldSubmission{
		Payload: service.FieldPayload{
			EntityType: params.EntityType.ID,
			FieldName:  params.FieldName,
			Bundles:    c.PostFormArray(inputBundles),
		},
		Label:       normalizeText(c.PostForm(inputLabel)),
		Description: normalizeText(c.PostForm(inputDescription)),
		ApplyTo:     c.PostFormArray(inputApplyTo),
	})
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	s.renderFieldForm(c, params.EntityType.ID, params.FieldName, result.Notices)
}
