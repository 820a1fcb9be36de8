// File: internal/provider/factory.go
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"notebookexec/internal/config"
	"notebookexec/pkg/notebooks"
	"notebookexec/pkg/notebooks/aiplatform"

	"google.golang.org/api/option"
)

// ClientInitializer creates an execution client bound to one region
type ClientInitializer func(ctx context.Context, region string, logger *slog.Logger) (notebooks.Client, error)

type Factory struct {
	cfg         *config.Config
	logger      *slog.Logger
	initializer ClientInitializer
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	f := &Factory{
		cfg:    cfg,
		logger: logger,
	}
	f.initializer = f.newVertexClient
	return f
}

// Replaces the client constructor, used to plug in fakes
func (f *Factory) WithInitializer(init ClientInitializer) *Factory {
	f.initializer = init
	return f
}

// Initializes and returns the execution client for the region
func (f *Factory) GetExecutionClient(ctx context.Context, region string) (notebooks.Client, error) {
	if region == "" {
		return nil, fmt.Errorf("no region given. Use --region or 'notebookexec config set %s <region>'", config.KeyRegion)
	}
	clientLogger := f.logger.With("region", region)

	client, err := f.initializer(ctx, region, clientLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize execution client for %s: %w", region, err)
	}
	return client, nil
}

func (f *Factory) newVertexClient(ctx context.Context, region string, logger *slog.Logger) (notebooks.Client, error) {
	var opts []option.ClientOption
	if f.cfg != nil && f.cfg.API.Endpoint != "" {
		logger.Debug("Using API endpoint override", "endpoint", f.cfg.API.Endpoint)
		opts = append(opts, option.WithEndpoint(f.cfg.API.Endpoint))
	}
	return aiplatform.NewExecutionClient(ctx, region, logger, opts...)
}
