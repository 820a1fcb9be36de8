// File: pkg/notebooks/aiplatform/executions.go
package aiplatform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"notebookexec/pkg/notebooks"

	vertex "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/googleapi"
)

var (
	ErrRegionMismatch = errors.New("resource region does not match the client")

	errStopPaging = errors.New("stop paging")
)

func (c *ExecutionClient) CreateExecution(ctx context.Context, parent string, job notebooks.ExecutionJob, jobID string) (*notebooks.Operation, error) {
	c.logger.Debug("Starting Vertex AI CreateNotebookExecutionJob operation", "parent", parent, "jobId", jobID)
	if err := c.checkRegion(parent); err != nil {
		return nil, err
	}

	call := c.service.Projects.Locations.NotebookExecutionJobs.Create(parent, toAPIJob(job))
	if jobID != "" {
		call = call.NotebookExecutionJobId(jobID)
	}
	op, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create notebook execution job: %w", mapAPIError(err))
	}
	return fromAPIOperation(op), nil
}

func (c *ExecutionClient) GetExecution(ctx context.Context, name string) (notebooks.ExecutionJob, error) {
	c.logger.Debug("Starting Vertex AI GetNotebookExecutionJob operation", "name", name)
	if err := c.checkRegion(name); err != nil {
		return notebooks.ExecutionJob{}, err
	}

	job, err := c.service.Projects.Locations.NotebookExecutionJobs.Get(name).Context(ctx).Do()
	if err != nil {
		return notebooks.ExecutionJob{}, fmt.Errorf("failed to get notebook execution job %s: %w", name, mapAPIError(err))
	}
	return fromAPIJob(job), nil
}

func (c *ExecutionClient) DeleteExecution(ctx context.Context, name string) (*notebooks.Operation, error) {
	c.logger.Debug("Starting Vertex AI DeleteNotebookExecutionJob operation", "name", name)
	if err := c.checkRegion(name); err != nil {
		return nil, err
	}

	op, err := c.service.Projects.Locations.NotebookExecutionJobs.Delete(name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to delete notebook execution job %s: %w", name, mapAPIError(err))
	}
	return fromAPIOperation(op), nil
}

func (c *ExecutionClient) ListExecutions(ctx context.Context, parent string, opts notebooks.ListOptions) ([]notebooks.ExecutionJob, error) {
	c.logger.Debug("Starting Vertex AI ListNotebookExecutionJobs operation", "parent", parent, "filter", opts.Filter)
	if err := c.checkRegion(parent); err != nil {
		return nil, err
	}

	call := c.service.Projects.Locations.NotebookExecutionJobs.List(parent)
	if opts.Filter != "" {
		call = call.Filter(opts.Filter)
	}
	if opts.OrderBy != "" {
		call = call.OrderBy(opts.OrderBy)
	}
	if opts.PageSize > 0 {
		call = call.PageSize(int64(opts.PageSize))
	}

	var jobs []notebooks.ExecutionJob
	err := call.Pages(ctx, func(resp *vertex.GoogleCloudAiplatformV1ListNotebookExecutionJobsResponse) error {
		for _, j := range resp.NotebookExecutionJobs {
			jobs = append(jobs, fromAPIJob(j))
			if opts.Limit > 0 && len(jobs) >= opts.Limit {
				return errStopPaging
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopPaging) {
		return nil, fmt.Errorf("failed to list notebook execution jobs in %s: %w", parent, mapAPIError(err))
	}
	return jobs, nil
}

func (c *ExecutionClient) GetOperation(ctx context.Context, name string) (*notebooks.Operation, error) {
	if err := c.checkRegion(name); err != nil {
		return nil, err
	}
	op, err := c.service.Projects.Locations.Operations.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get operation %s: %w", name, mapAPIError(err))
	}
	return fromAPIOperation(op), nil
}

// A regional endpoint only serves resources in its own region
func (c *ExecutionClient) checkRegion(name string) error {
	region, err := notebooks.RegionFromName(name)
	if err != nil {
		return err
	}
	if region != c.region {
		return fmt.Errorf("%w: %s is in region %s, client is bound to %s", ErrRegionMismatch, name, region, c.region)
	}
	return nil
}

// Keeps the API error in the chain and adds notebooks.ErrNotFound for 404s
func mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", notebooks.ErrNotFound, err)
	}
	return err
}
