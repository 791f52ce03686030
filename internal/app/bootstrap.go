// Package app is the composition root; bootstrap stays orchestration-only.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"fieldhelptext.io/fieldhelptext/internal/api/handlers"
	"fieldhelptext.io/fieldhelptext/internal/app/modules"
	"fieldhelptext.io/fieldhelptext/internal/config"
	"fieldhelptext.io/fieldhelptext/internal/infrastructure"
	"fieldhelptext.io/fieldhelptext/internal/repository"
)

// Application holds composed application dependencies.
type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *infrastructure.DatabaseClients
	Store   repository.FieldConfigStore
	Modules []modules.Module
}

// Bootstrap initializes all dependencies using module-oriented manual DI.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	infra, err := modules.NewInfrastructure(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}

	helpText := modules.NewHelpTextModule(infra)
	allModules := []modules.Module{helpText}

	serverDeps := modules.NewServerDeps(cfg, infra, allModules)
	server := handlers.NewServer(serverDeps)

	router, err := newRouter(cfg, server, helpText.Registry())
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("init router: %w", err)
	}

	return &Application{
		Config:  cfg,
		Router:  router,
		DB:      infra.DB,
		Store:   infra.Store,
		Modules: allModules,
	}, nil
}
