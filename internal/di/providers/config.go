// Package providers contains dependency injection providers for the Oferta server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/ofertaapp/oferta-server/internal/config"
	"github.com/ofertaapp/oferta-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Oferta Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"storage_path", cfg.Storage.BasePath,
	)

	return log, nil
}
