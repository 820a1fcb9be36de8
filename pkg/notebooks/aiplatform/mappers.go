// File: pkg/notebooks/aiplatform/mappers.go
package aiplatform

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"notebookexec/pkg/notebooks"

	vertex "google.golang.org/api/aiplatform/v1"
)

func toAPIJob(job notebooks.ExecutionJob) *vertex.GoogleCloudAiplatformV1NotebookExecutionJob {
	out := &vertex.GoogleCloudAiplatformV1NotebookExecutionJob{
		DisplayName:                         job.DisplayName,
		NotebookRuntimeTemplateResourceName: job.RuntimeTemplateResource,
		GcsOutputUri:                        job.GcsOutputURI,
		ExecutionUser:                       job.ExecutionUser,
		ServiceAccount:                      job.ServiceAccount,
		Labels:                              job.Labels,
	}

	if job.ExecutionTimeout > 0 {
		out.ExecutionTimeout = formatAPIDuration(job.ExecutionTimeout)
	}

	switch {
	case job.DataformSource != nil:
		out.DataformRepositorySource = &vertex.GoogleCloudAiplatformV1NotebookExecutionJobDataformRepositorySource{
			DataformRepositoryResourceName: job.DataformSource.RepositoryResourceName,
			CommitSha:                      job.DataformSource.CommitSHA,
		}
	case job.GcsSource != nil:
		out.GcsNotebookSource = &vertex.GoogleCloudAiplatformV1NotebookExecutionJobGcsNotebookSource{
			Uri:        job.GcsSource.URI,
			Generation: job.GcsSource.Generation,
		}
	case job.DirectSource != nil:
		// bytes fields travel base64 encoded in the JSON API
		out.DirectNotebookSource = &vertex.GoogleCloudAiplatformV1NotebookExecutionJobDirectNotebookSource{
			Content: base64.StdEncoding.EncodeToString(job.DirectSource.Content),
		}
	}

	if job.KmsKeyName != "" {
		out.EncryptionSpec = &vertex.GoogleCloudAiplatformV1EncryptionSpec{
			KmsKeyName: job.KmsKeyName,
		}
	}
	return out
}

func fromAPIJob(j *vertex.GoogleCloudAiplatformV1NotebookExecutionJob) notebooks.ExecutionJob {
	if j == nil {
		return notebooks.ExecutionJob{}
	}

	job := notebooks.ExecutionJob{
		Name:                    j.Name,
		DisplayName:             j.DisplayName,
		RuntimeTemplateResource: j.NotebookRuntimeTemplateResourceName,
		GcsOutputURI:            j.GcsOutputUri,
		ExecutionUser:           j.ExecutionUser,
		ServiceAccount:          j.ServiceAccount,
		State:                   notebooks.JobState(j.JobState),
		Labels:                  j.Labels,
		CreatedAt:               parseAPITime(j.CreateTime),
		UpdatedAt:               parseAPITime(j.UpdateTime),
	}

	if d, err := parseAPIDuration(j.ExecutionTimeout); err == nil {
		job.ExecutionTimeout = d
	}
	if j.DataformRepositorySource != nil {
		job.DataformSource = &notebooks.DataformSource{
			RepositoryResourceName: j.DataformRepositorySource.DataformRepositoryResourceName,
			CommitSHA:              j.DataformRepositorySource.CommitSha,
		}
	}
	if j.GcsNotebookSource != nil {
		job.GcsSource = &notebooks.GcsSource{
			URI:        j.GcsNotebookSource.Uri,
			Generation: j.GcsNotebookSource.Generation,
		}
	}
	if j.DirectNotebookSource != nil {
		content, err := base64.StdEncoding.DecodeString(j.DirectNotebookSource.Content)
		if err == nil {
			job.DirectSource = &notebooks.DirectSource{Content: content}
		}
	}
	if j.EncryptionSpec != nil {
		job.KmsKeyName = j.EncryptionSpec.KmsKeyName
	}
	if j.Status != nil {
		job.StatusMessage = j.Status.Message
	}
	return job
}

func fromAPIOperation(op *vertex.GoogleLongrunningOperation) *notebooks.Operation {
	if op == nil {
		return nil
	}
	out := &notebooks.Operation{
		Name: op.Name,
		Done: op.Done,
	}
	if op.Error != nil {
		out.Error = &notebooks.OperationError{
			Code:    op.Error.Code,
			Message: op.Error.Message,
		}
	}
	return out
}

// The API encodes durations as decimal seconds with an "s" suffix, e.g. "86400s"
func formatAPIDuration(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

func parseAPIDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	return time.ParseDuration(s)
}

func parseAPITime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
