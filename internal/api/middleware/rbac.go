package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"

	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

// SuperAdminPermission grants every permission.
const SuperAdminPermission = "administer site configuration"

// RequirePermission returns middleware that checks the authenticated user
// holds permission. It must run after JWTAuth.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		perms, exists := c.Get("permissions")
		if !exists {
			_ = c.Error(apperrors.Forbidden(apperrors.CodeForbidden, "no permissions in context"))
			c.Abort()
			return
		}
		permList, ok := perms.([]string)
		if !ok {
			_ = c.Error(apperrors.Forbidden(apperrors.CodeForbidden, "invalid permissions type"))
			c.Abort()
			return
		}

		if slices.Contains(permList, SuperAdminPermission) || slices.Contains(permList, permission) {
			c.Next()
			return
		}

		_ = c.Error(apperrors.Forbidden(apperrors.CodeForbidden, "insufficient permissions"))
		c.Abort()
	}
}
