package app

import (
	"context"

	"go.uber.org/zap"

	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
)

// Shutdown gracefully shuts down all application components.
func (a *Application) Shutdown() {
	shutdownCtx := context.Background()

	for _, mod := range a.Modules {
		if mod == nil {
			continue
		}
		if err := mod.Shutdown(shutdownCtx); err != nil {
			logger.Warn("module shutdown returned error",
				zap.String("module", mod.Name()),
				zap.Error(err),
			)
		}
	}

	if a.DB != nil {
		a.DB.Close()
	}
}
