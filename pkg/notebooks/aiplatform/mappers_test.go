// File: pkg/notebooks/aiplatform/mappers_test.go
package aiplatform

import (
	"testing"
	"time"

	"notebookexec/pkg/notebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vertex "google.golang.org/api/aiplatform/v1"
)

func TestToAPIJob_Sources(t *testing.T) {
	dataform := toAPIJob(notebooks.ExecutionJob{
		DataformSource: &notebooks.DataformSource{RepositoryResourceName: "projects/p/locations/l/repositories/r", CommitSHA: "abc"},
	})
	require.NotNil(t, dataform.DataformRepositorySource)
	assert.Equal(t, "abc", dataform.DataformRepositorySource.CommitSha)
	assert.Nil(t, dataform.GcsNotebookSource)
	assert.Nil(t, dataform.DirectNotebookSource)
	assert.Empty(t, dataform.ExecutionTimeout)
	assert.Nil(t, dataform.EncryptionSpec)

	gcs := toAPIJob(notebooks.ExecutionJob{GcsSource: &notebooks.GcsSource{URI: "gs://b/n.ipynb"}})
	require.NotNil(t, gcs.GcsNotebookSource)
	assert.Equal(t, "gs://b/n.ipynb", gcs.GcsNotebookSource.Uri)
	assert.Nil(t, gcs.DataformRepositorySource)
}

func TestFromAPIJob_DirectSourceRoundTrip(t *testing.T) {
	in := notebooks.ExecutionJob{
		DirectSource:     &notebooks.DirectSource{Content: []byte(`{"cells":[]}`)},
		ExecutionTimeout: 1500 * time.Millisecond,
	}
	out := fromAPIJob(toAPIJob(in))
	require.NotNil(t, out.DirectSource)
	assert.Equal(t, in.DirectSource.Content, out.DirectSource.Content)
	assert.Equal(t, in.ExecutionTimeout, out.ExecutionTimeout)
}

func TestFromAPIJob_Lenient(t *testing.T) {
	assert.Equal(t, notebooks.ExecutionJob{}, fromAPIJob(nil))

	job := fromAPIJob(&vertex.GoogleCloudAiplatformV1NotebookExecutionJob{
		ExecutionTimeout:     "forever",
		CreateTime:           "yesterday",
		DirectNotebookSource: &vertex.GoogleCloudAiplatformV1NotebookExecutionJobDirectNotebookSource{Content: "%%%"},
	})
	assert.Zero(t, job.ExecutionTimeout)
	assert.True(t, job.CreatedAt.IsZero())
	assert.Nil(t, job.DirectSource)
}

func TestFormatAPIDuration(t *testing.T) {
	assert.Equal(t, "86400s", formatAPIDuration(24*time.Hour))
	assert.Equal(t, "1.5s", formatAPIDuration(1500*time.Millisecond))
}

func TestFromAPIOperation(t *testing.T) {
	assert.Nil(t, fromAPIOperation(nil))

	op := fromAPIOperation(&vertex.GoogleLongrunningOperation{
		Name:  "projects/p/locations/l/operations/1",
		Done:  true,
		Error: &vertex.GoogleRpcStatus{Code: 7, Message: "denied"},
	})
	assert.Equal(t, "projects/p/locations/l/operations/1", op.Name)
	require.NotNil(t, op.Error)
	assert.Equal(t, int64(7), op.Error.Code)
}
