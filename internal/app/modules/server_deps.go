package modules

import (
	"fieldhelptext.io/fieldhelptext/internal/api/handlers"
	"fieldhelptext.io/fieldhelptext/internal/config"
)

// NewServerDeps builds base server deps then lets each module contribute explicit wiring.
func NewServerDeps(cfg *config.Config, infra *Infrastructure, mods []Module) handlers.ServerDeps {
	deps := handlers.ServerDeps{
		Store:    infra.Store,
		BasePath: cfg.Server.BasePath,
	}
	for _, mod := range mods {
		if mod == nil {
			continue
		}
		mod.ContributeServerDeps(&deps)
	}
	return deps
}
