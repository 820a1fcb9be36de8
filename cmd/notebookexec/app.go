// File: cmd/notebookexec/app.go
package main

import (
	"log/slog"

	"notebookexec/internal/config"
	"notebookexec/internal/provider"
	"notebookexec/internal/service"
	"notebookexec/pkg/formatter"
)

// appContainer holds all the shared dependencies for the application
// This includes configuration, the execution service, formatters, and the logger
type appContainer struct {
	Config             *config.Config
	ConfigManager      *config.ConfigManager
	ProviderFactory    *provider.Factory
	ExecutionService   *service.ExecutionService
	ExecutionFormatter *formatter.ExecutionFormatter
	Logger             *slog.Logger
	LogLevel           *slog.LevelVar
}

// Creates and initializes a new application container
func newApp(logger *slog.Logger, level *slog.LevelVar, cfgManager *config.ConfigManager) (*appContainer, error) {
	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	providerFactory := provider.NewFactory(cfg, logger)
	executionService := service.NewExecutionService(providerFactory, cfg.Operations, logger)

	return &appContainer{
		Config:             cfg,
		ConfigManager:      cfgManager,
		ProviderFactory:    providerFactory,
		ExecutionService:   executionService,
		ExecutionFormatter: formatter.NewExecutionFormatter(),
		Logger:             logger,
		LogLevel:           level,
	}, nil
}
