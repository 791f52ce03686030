package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldhelptext.io/fieldhelptext/internal/api/middleware"
	"fieldhelptext.io/fieldhelptext/internal/service"
)

// Form input names of the bundle edit page.
const (
	inputEntityType = "payload_entity_type"
	inputBundle     = "payload_bundle"
	inputFieldNames = "payload_field_names"
	inputFields     = "fields"
)

func (s *Server) renderBundleForm(c *gin.Context, entityType, bundle string, notices []string) {
	spec, err := s.bundleForm.Render(c.Request.Context(), entityType, bundle)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.HTML(http.StatusOK, "bundle_form.html", gin.H{
		"Title":     spec.Title,
		"Form":      spec,
		"Action":    c.Request.URL.Path,
		"Home":      s.basePath,
		"Notices":   notices,
		"FormToken": middleware.GetFormToken(c),
	})
}

// GetBundleForm handles GET .../bundle/:entity_type/:bundle.
func (s *Server) GetBundleForm(c *gin.Context) {
	params, ok := middleware.RouteParams(c)
	if !ok {
		_ = c.Error(formInvalid("route parameters not resolved"))
		return
	}
	s.renderBundleForm(c, params.EntityType.ID, params.Bundle, nil)
}

// PostBundleForm handles POST .../bundle/:entity_type/:bundle. The field
// list comes from the hidden payload captured at render time.
func (s *Server) PostBundleForm(c *gin.Context) {
	params, ok := middleware.RouteParams(c)
	if !ok {
		_ = c.Error(formInvalid("route parameters not resolved"))
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		_ = c.Error(formInvalid("malformed form body"))
		return
	}
	if c.PostForm(inputEntityType) != params.EntityType.ID || c.PostForm(inputBundle) != params.Bundle {
		_ = c.Error(formInvalid("form does not belong to this bundle"))
		return
	}

	result, err := s.bundleForm.Submit(c.Request.Context(), service.BundleSubmission{
		Payload: service.BundlePayload{
			EntityType: params.EntityType.ID,
			Bundle:     params.Bundle,
			FieldNames: c.PostFormArray(inputFieldNames),
		},
		Values: normalizeTextMap(c.PostFormMap(inputFields)),
	})
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	s.renderBundleForm(c, params.EntityType.ID, params.Bundle, result.Notices)
}
