package app

import (
	"github.com/gin-gonic/gin"

	"fieldhelptext.io/fieldhelptext/internal/api/handlers"
	"fieldhelptext.io/fieldhelptext/internal/api/middleware"
	"fieldhelptext.io/fieldhelptext/internal/config"
	"fieldhelptext.io/fieldhelptext/internal/paramconv"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
)

func newRouter(cfg *config.Config, server *handlers.Server, registry *paramconv.Registry) (*gin.Engine, error) {
	tmpl, err := handlers.Templates()
	if err != nil {
		return nil, err
	}
	formTokens, err := middleware.NewFormTokens([]byte(cfg.Security.JWTSecret))
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.ErrorHandler())
	router.SetHTMLTemplate(tmpl)

	// Probes stay outside the admin guard.
	router.GET("/healthz", server.GetLiveness)
	router.GET("/readyz", server.GetReadiness)

	admin := router.Group(cfg.Server.BasePath)
	if cfg.Security.AuthEnabled {
		admin.Use(
			middleware.JWTAuth(jwtConfig(cfg.Security)),
			middleware.RequirePermission(cfg.Security.Permission),
		)
	}

	admin.GET("", server.GetIndex)

	// Edit forms check the form token before resolving route parameters.
	protect := middleware.ProtectForms(formTokens)

	bundle := admin.Group("/bundle/:entity_type/:bundle", protect, middleware.ResolveParams(registry, paramconv.BundleRoute))
	bundle.GET("", server.GetBundleForm)
	bundle.POST("", server.PostBundleForm)

	field := admin.Group("/field/:entity_type/:field_name", protect, middleware.ResolveParams(registry, paramconv.FieldRoute))
	field.GET("", server.GetFieldForm)
	field.POST("", server.PostFieldForm)

	// Runtime log level: GET returns it, PUT {"level":"debug"} changes it.
	admin.Any("/log-level", gin.WrapH(logger.LevelHandler()))

	return router, nil
}

func jwtConfig(sec config.SecurityConfig) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey: []byte(sec.JWTSecret),
		Issuer:     sec.JWTIssuer,
		ExpiresIn:  sec.TokenTTL,
	}
}
