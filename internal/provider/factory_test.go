// File: internal/provider/factory_test.go
package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"notebookexec/internal/config"
	"notebookexec/pkg/notebooks"
	"notebookexec/pkg/notebooks/aiplatform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetExecutionClient_RequiresRegion(t *testing.T) {
	f := NewFactory(&config.Config{}, testLogger())
	_, err := f.GetExecutionClient(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.KeyRegion)
}

func TestGetExecutionClient_Initializer(t *testing.T) {
	var gotRegion string
	f := NewFactory(&config.Config{}, testLogger()).WithInitializer(
		func(_ context.Context, region string, _ *slog.Logger) (notebooks.Client, error) {
			gotRegion = region
			return nil, errors.New("no credentials")
		},
	)

	_, err := f.GetExecutionClient(context.Background(), "us-east1")
	require.Error(t, err)
	assert.Equal(t, "us-east1", gotRegion)
	assert.Contains(t, err.Error(), "failed to initialize execution client for us-east1")
}

func TestGetExecutionClient_Vertex(t *testing.T) {
	cfg := &config.Config{API: config.APIConfig{Endpoint: "http://localhost:1/"}}
	f := NewFactory(cfg, testLogger())

	client, err := f.GetExecutionClient(context.Background(), "us-central1")
	if err != nil {
		t.Skipf("Vertex client needs default credentials: %v", err)
	}
	defer client.Close()

	_, ok := client.(*aiplatform.ExecutionClient)
	assert.True(t, ok)
}
