// File: pkg/notebooks/client.go
package notebooks

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOperationFailed is returned when a long running operation finished with an error
	ErrOperationFailed = errors.New("operation failed")
	ErrNotFound        = errors.New("resource not found")
)

// Client is the execution management API used by the service layer
type Client interface {
	// parent is a region: projects/*/locations/*
	CreateExecution(ctx context.Context, parent string, job ExecutionJob, jobID string) (*Operation, error)
	GetExecution(ctx context.Context, name string) (ExecutionJob, error)
	DeleteExecution(ctx context.Context, name string) (*Operation, error)
	ListExecutions(ctx context.Context, parent string, opts ListOptions) ([]ExecutionJob, error)
	GetOperation(ctx context.Context, name string) (*Operation, error)
	Close() error
}

// Returns the region ID of a resource name such as
// projects/p/locations/us-central1/notebookExecutionJobs/123
func RegionFromName(name string) (string, error) {
	parts := strings.Split(strings.Trim(name, "/"), "/")
	for i := 0; i+1 < len(parts); i += 2 {
		if parts[i] == "locations" && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}
	return "", fmt.Errorf("resource name %q has no location", name)
}

// Regional API endpoint, e.g. https://us-central1-aiplatform.googleapis.com/
func RegionalEndpoint(region string) string {
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/", region)
}

// ExecutionURI is the URI function used when listing executions with --uri
func ExecutionURI(item any) (string, error) {
	var name string
	switch v := item.(type) {
	case ExecutionJob:
		name = v.Name
	case *ExecutionJob:
		if v == nil {
			return "", fmt.Errorf("nil execution")
		}
		name = v.Name
	case string:
		name = v
	default:
		return "", fmt.Errorf("cannot build an execution URI from %T", item)
	}

	region, err := RegionFromName(name)
	if err != nil {
		return "", err
	}
	return RegionalEndpoint(region) + "v1/" + strings.TrimPrefix(name, "/"), nil
}

// Err converts a finished operation into an error, or nil on success
func (o *Operation) Err() error {
	if o == nil || o.Error == nil {
		return nil
	}
	return fmt.Errorf("%w: %s (code %d)", ErrOperationFailed, o.Error.Message, o.Error.Code)
}
