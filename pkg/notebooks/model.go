// File: pkg/notebooks/model.go
package notebooks

import (
	"time"
)

type JobState string

const (
	JobStateUnspecified JobState = "JOB_STATE_UNSPECIFIED"
	JobStateQueued      JobState = "JOB_STATE_QUEUED"
	JobStatePending     JobState = "JOB_STATE_PENDING"
	JobStateRunning     JobState = "JOB_STATE_RUNNING"
	JobStateSucceeded   JobState = "JOB_STATE_SUCCEEDED"
	JobStateFailed      JobState = "JOB_STATE_FAILED"
	JobStateCancelling  JobState = "JOB_STATE_CANCELLING"
	JobStateCancelled   JobState = "JOB_STATE_CANCELLED"
)

func (s JobState) IsTerminal() bool {
	switch s {
	case JobStateSucceeded, JobStateFailed, JobStateCancelled:
		return true
	default:
		return false
	}
}

// ExecutionJob is a notebook execution job as sent to and returned by the API
type ExecutionJob struct {
	// Full resource name: projects/*/locations/*/notebookExecutionJobs/*
	Name        string
	DisplayName string

	// Exactly one notebook source is set
	DataformSource *DataformSource
	GcsSource      *GcsSource
	DirectSource   *DirectSource

	ExecutionTimeout        time.Duration
	RuntimeTemplateResource string
	GcsOutputURI            string

	// Exactly one identity is set
	ExecutionUser  string
	ServiceAccount string

	// Empty means Google-managed encryption
	KmsKeyName string

	State         JobState
	// Error message reported by the service for failed jobs
	StatusMessage string
	Labels        map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type DataformSource struct {
	RepositoryResourceName string
	// Empty reads from HEAD
	CommitSHA string
}

type GcsSource struct {
	URI string
	// Empty reads the live object version
	Generation string
}

type DirectSource struct {
	// Raw .ipynb bytes, encoded by the client as the API requires
	Content []byte
}

// Operation is a long running operation returned by mutating calls
type Operation struct {
	Name  string
	Done  bool
	Error *OperationError
}

type OperationError struct {
	Code    int64
	Message string
}

type ListOptions struct {
	Filter   string
	OrderBy  string
	PageSize int
	// Zero means no limit
	Limit int
}
