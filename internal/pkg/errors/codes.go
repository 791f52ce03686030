package errors

import "net/http"

// Route resolution error codes.
const (
	CodeEntityTypeNotFound = "ENTITY_TYPE_NOT_FOUND"
	CodeBundleNotFound     = "BUNDLE_NOT_FOUND"
	CodeFieldNotFound      = "FIELD_NOT_FOUND"
	CodeRouteParamInvalid  = "ROUTE_PARAM_INVALID"
)

// Field configuration error codes.
const (
	CodeFieldConfigNotFound   = "FIELD_CONFIG_NOT_FOUND"
	CodeFieldConfigSaveFailed = "FIELD_CONFIG_SAVE_FAILED"
	CodeMetadataUnavailable   = "METADATA_UNAVAILABLE"
)

// Request error codes.
const (
	CodeFormInvalid      = "FORM_INVALID"
	CodeFormTokenInvalid = "FORM_TOKEN_INVALID"
	CodeCrossOrigin      = "CROSS_ORIGIN_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeInternal         = "INTERNAL_ERROR"
)

// The route resolution errors below wrap ErrNotFound so errors.Is keeps working.

// ErrEntityTypeNotFoundf creates an unknown entity type error.
func ErrEntityTypeNotFoundf(entityType string) *AppError {
	return Wrap(ErrNotFound, CodeEntityTypeNotFound, "entity type not found", http.StatusNotFound).
		WithParams(map[string]string{"entity_type": entityType})
}

// ErrBundleNotFoundf creates an unknown bundle error.
func ErrBundleNotFoundf(entityType, bundle string) *AppError {
	return Wrap(ErrNotFound, CodeBundleNotFound, "bundle not found", http.StatusNotFound).
		WithParams(map[string]string{"entity_type": entityType, "bundle": bundle})
}

// ErrFieldNotFoundf creates an unknown field error.
func ErrFieldNotFoundf(entityType, fieldName string) *AppError {
	return Wrap(ErrNotFound, CodeFieldNotFound, "field not found", http.StatusNotFound).
		WithParams(map[string]string{"entity_type": entityType, "field_name": fieldName})
}

// ErrFieldConfigSavef wraps a failed field instance config save.
func ErrFieldConfigSavef(err error, entityType, bundle, fieldName string) *AppError {
	return Wrap(err, CodeFieldConfigSaveFailed, "saving field help text failed", http.StatusInternalServerError).
		WithParams(map[string]string{"entity_type": entityType, "bundle": bundle, "field_name": fieldName})
}
