// File: pkg/notebooks/aiplatform/client.go
package aiplatform

import (
	"context"
	"fmt"
	"log/slog"

	"notebookexec/pkg/notebooks"

	vertex "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/option"
)

// ExecutionClient talks to the regional Vertex AI endpoint of a single region
type ExecutionClient struct {
	service *vertex.Service
	region  string
	logger  *slog.Logger
}

var _ notebooks.Client = (*ExecutionClient)(nil)

func NewExecutionClient(ctx context.Context, region string, logger *slog.Logger, opts ...option.ClientOption) (*ExecutionClient, error) {
	if region == "" {
		return nil, fmt.Errorf("region is required to create a Vertex AI client")
	}

	// Caller options come last so tests can point the client at a fake server
	clientOpts := append([]option.ClientOption{option.WithEndpoint(notebooks.RegionalEndpoint(region))}, opts...)
	service, err := vertex.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client for region %s: %w", region, err)
	}

	return &ExecutionClient{
		service: service,
		region:  region,
		logger:  logger.With("region", region),
	}, nil
}

// The discovery based service holds no connections of its own
func (c *ExecutionClient) Close() error {
	return nil
}
