// Package middleware provides HTTP middleware for the field help text admin.
package middleware

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"

	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
)

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{with .RequestID}}<p><small>Request ID: {{.}}</small></p>{{end}}
</body>
</html>
`))

type errorPageData struct {
	Title     string
	Message   string
	RequestID string
}

// ErrorHandler is a Gin middleware that provides centralized error handling.
// It captures errors added via c.Error() and renders an HTML error page,
// or JSON when the client prefers it.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		code := apperrors.CodeInternal
		message := "An internal error occurred"

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			status, code, message = appErr.HTTPStatus, appErr.Code, appErr.Message
			logger.Warn("Request error",
				zap.String("code", appErr.Code),
				zap.String("message", appErr.Message),
				zap.Int("status", appErr.HTTPStatus),
				zap.Any("params", appErr.Params),
				zap.Error(appErr.Err),
			)
		} else {
			logger.Error("Unhandled request error", zap.Error(err))
		}

		if c.Writer.Written() {
			return
		}
		writeError(c, status, code, message)
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(status, gin.H{"code": code, "message": message})
		return
	}
	c.Render(status, render.HTML{
		Template: errorPage,
		Name:     "error",
		Data: errorPageData{
			Title:     http.StatusText(status),
			Message:   message,
			RequestID: GetRequestID(c.Request.Context()),
		},
	})
}
