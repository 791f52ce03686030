package handlers

import (
	"net/http"
	"strings"

	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

// toAppError keeps AppErrors and classifies everything else so the error
// page shows a meaningful status.
func toAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.IsAppError(err); ok {
		return appErr
	}
	if apperrors.IsNotFound(err) {
		return apperrors.Wrap(err, apperrors.CodeFieldConfigNotFound, "field configuration not found", http.StatusNotFound)
	}
	return apperrors.Wrap(err, apperrors.CodeMetadataUnavailable, "field metadata unavailable", http.StatusInternalServerError)
}

func formInvalid(message string) *apperrors.AppError {
	return apperrors.BadRequest(apperrors.CodeFormInvalid, message)
}

// Browsers post textarea line breaks as CRLF; stored text uses LF.
var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeText(s string) string {
	return newlineReplacer.Replace(s)
}

func normalizeTextMap(values map[string]string) map[string]string {
	for k, v := range values {
		values[k] = normalizeText(v)
	}
	return values
}
