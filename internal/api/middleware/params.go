package middleware

import (
	"github.com/gin-gonic/gin"

	"fieldhelptext.io/fieldhelptext/internal/paramconv"
)

const ctxKeyRouteParams = "route_params"

// ResolveParams converts the route's path parameters before the handler
// runs. Unknown values abort the request with a 404 page.
func ResolveParams(registry *paramconv.Registry, defs []paramconv.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := make(map[string]string, len(defs))
		for _, def := range defs {
			raw[def.Name] = c.Param(def.Name)
		}

		params, err := registry.Resolve(c.Request.Context(), defs, raw)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(ctxKeyRouteParams, params)
		c.Next()
	}
}

// RouteParams returns the values resolved by ResolveParams.
func RouteParams(c *gin.Context) (paramconv.Params, bool) {
	v, ok := c.Get(ctxKeyRouteParams)
	if !ok {
		return paramconv.Params{}, false
	}
	params, ok := v.(paramconv.Params)
	return params, ok
}
