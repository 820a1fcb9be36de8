// File: internal/service/execution_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"notebookexec/internal/config"
	"notebookexec/internal/provider"
	"notebookexec/pkg/notebooks"
)

// ErrOperationTimeout is returned when an operation is still running after the configured timeout
var ErrOperationTimeout = errors.New("timed out waiting for operation")

const defaultPollInterval = 5 * time.Second

type ExecutionService struct {
	providerFactory *provider.Factory
	pollInterval    time.Duration
	timeout         time.Duration
	logger          *slog.Logger
}

func NewExecutionService(providerFactory *provider.Factory, ops config.OperationsConfig, logger *slog.Logger) *ExecutionService {
	pollInterval := ops.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &ExecutionService{
		providerFactory: providerFactory,
		pollInterval:    pollInterval,
		timeout:         ops.Timeout,
		logger:          logger.With("service", "ExecutionService"),
	}
}

// Starts a notebook execution job under parent (projects/*/locations/*)
func (s *ExecutionService) Create(ctx context.Context, parent string, job notebooks.ExecutionJob, jobID string) (*notebooks.Operation, error) {
	s.logger.Debug("Starting Create operation", "parent", parent, "displayName", job.DisplayName, "jobId", jobID)

	client, err := s.getClient(ctx, parent)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	op, err := client.CreateExecution(ctx, parent, job, jobID)
	if err != nil {
		s.logger.Error("Failed to create execution", "parent", parent, "error", err)
		return nil, err
	}
	return op, nil
}

func (s *ExecutionService) Describe(ctx context.Context, name string) (notebooks.ExecutionJob, error) {
	s.logger.Debug("Starting Describe operation", "execution", name)

	client, err := s.getClient(ctx, name)
	if err != nil {
		return notebooks.ExecutionJob{}, err
	}
	defer client.Close()

	job, err := client.GetExecution(ctx, name)
	if err != nil {
		s.logger.Error("Failed to describe execution", "execution", name, "error", err)
		return notebooks.ExecutionJob{}, err
	}
	return job, nil
}

func (s *ExecutionService) Delete(ctx context.Context, name string) (*notebooks.Operation, error) {
	s.logger.Debug("Starting Delete operation", "execution", name)

	client, err := s.getClient(ctx, name)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	op, err := client.DeleteExecution(ctx, name)
	if err != nil {
		s.logger.Error("Failed to delete execution", "execution", name, "error", err)
		return nil, err
	}
	return op, nil
}

func (s *ExecutionService) List(ctx context.Context, parent string, opts notebooks.ListOptions) ([]notebooks.ExecutionJob, error) {
	s.logger.Debug("Starting List operation", "parent", parent, "filter", opts.Filter, "limit", opts.Limit)

	client, err := s.getClient(ctx, parent)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	jobs, err := client.ListExecutions(ctx, parent, opts)
	if err != nil {
		s.logger.Error("Failed to list executions", "parent", parent, "error", err)
		return nil, err
	}

	s.logger.Debug("Successfully fetched executions", "parent", parent, "count", len(jobs))
	return jobs, nil
}

// Polls op until it is done, ctx is cancelled or the operation timeout elapses.
// A finished operation carrying an error yields notebooks.ErrOperationFailed
func (s *ExecutionService) WaitForOperation(ctx context.Context, op *notebooks.Operation) (*notebooks.Operation, error) {
	if op == nil {
		return nil, fmt.Errorf("no operation to wait for")
	}
	if op.Done {
		return op, op.Err()
	}

	client, err := s.getClient(ctx, op.Name)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Debug("Waiting for operation", "operation", op.Name, "pollInterval", s.pollInterval, "timeout", s.timeout)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && s.timeout > 0 {
				return nil, fmt.Errorf("%w %s after %s", ErrOperationTimeout, op.Name, s.timeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}

		current, err := client.GetOperation(ctx, op.Name)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			s.logger.Error("Failed to poll operation", "operation", op.Name, "error", err)
			return nil, err
		}
		if current.Done {
			s.logger.Debug("Operation finished", "operation", op.Name, "failed", current.Error != nil)
			return current, current.Err()
		}
	}
}

// Initializes the client for the region named in a resource name
func (s *ExecutionService) getClient(ctx context.Context, resourceName string) (notebooks.Client, error) {
	region, err := notebooks.RegionFromName(resourceName)
	if err != nil {
		return nil, err
	}

	client, err := s.providerFactory.GetExecutionClient(ctx, region)
	if err != nil {
		s.logger.Error("Failed to initialize client", "region", region, "error", err)
		return nil, fmt.Errorf("error initializing client: %w", err)
	}
	return client, nil
}
