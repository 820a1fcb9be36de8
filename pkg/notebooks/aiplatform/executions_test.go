// File: pkg/notebooks/aiplatform/executions_test.go
package aiplatform

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notebookexec/pkg/notebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vertex "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/option"
)

const parent = "projects/p/locations/us-central1"

func newTestClient(t *testing.T, handler http.Handler) *ExecutionClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := NewExecutionClient(context.Background(), "us-central1", logger,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewExecutionClient_RequiresRegion(t *testing.T) {
	_, err := NewExecutionClient(context.Background(), "", slog.Default())
	assert.Error(t, err)
}

func TestCreateExecution(t *testing.T) {
	var got vertex.GoogleCloudAiplatformV1NotebookExecutionJob
	var jobID string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/"+parent+"/notebookExecutionJobs", r.URL.Path)
		jobID = r.URL.Query().Get("notebookExecutionJobId")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, http.StatusOK, map[string]any{"name": parent + "/operations/42"})
	}))

	op, err := client.CreateExecution(context.Background(), parent, notebooks.ExecutionJob{
		DisplayName:             "nightly",
		DirectSource:            &notebooks.DirectSource{Content: []byte("{}")},
		ExecutionTimeout:        90 * time.Minute,
		RuntimeTemplateResource: parent + "/notebookRuntimeTemplates/t1",
		GcsOutputURI:            "gs://out",
		ServiceAccount:          "sa@p.iam.gserviceaccount.com",
		KmsKeyName:              "projects/p/locations/us-central1/keyRings/r/cryptoKeys/k",
	}, "run-1")
	require.NoError(t, err)

	assert.Equal(t, parent+"/operations/42", op.Name)
	assert.False(t, op.Done)
	assert.Equal(t, "run-1", jobID)
	assert.Equal(t, "nightly", got.DisplayName)
	assert.Equal(t, "5400s", got.ExecutionTimeout)
	require.NotNil(t, got.DirectNotebookSource)
	assert.Equal(t, "e30=", got.DirectNotebookSource.Content)
	assert.Nil(t, got.GcsNotebookSource)
	require.NotNil(t, got.EncryptionSpec)
	assert.Equal(t, "projects/p/locations/us-central1/keyRings/r/cryptoKeys/k", got.EncryptionSpec.KmsKeyName)
}

func TestGetExecution(t *testing.T) {
	name := parent + "/notebookExecutionJobs/run-1"

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/"+name {
			writeJSON(t, w, http.StatusNotFound, map[string]any{
				"error": map[string]any{"code": 404, "message": "not found", "status": "NOT_FOUND"},
			})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"name":              name,
			"displayName":       "nightly",
			"jobState":          "JOB_STATE_FAILED",
			"executionTimeout":  "86400s",
			"gcsNotebookSource": map[string]any{"uri": "gs://b/n.ipynb", "generation": "3"},
			"executionUser":     "me@example.com",
			"status":            map[string]any{"code": 3, "message": "kernel died"},
			"createTime":        "2026-03-01T12:30:00.123Z",
		})
	}))

	job, err := client.GetExecution(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, "nightly", job.DisplayName)
	assert.Equal(t, notebooks.JobStateFailed, job.State)
	assert.Equal(t, 24*time.Hour, job.ExecutionTimeout)
	require.NotNil(t, job.GcsSource)
	assert.Equal(t, "3", job.GcsSource.Generation)
	assert.Equal(t, "me@example.com", job.ExecutionUser)
	assert.Equal(t, "kernel died", job.StatusMessage)
	assert.Equal(t, 2026, job.CreatedAt.Year())
	assert.True(t, job.UpdatedAt.IsZero())

	_, err = client.GetExecution(context.Background(), parent+"/notebookExecutionJobs/missing")
	assert.ErrorIs(t, err, notebooks.ErrNotFound)
}

func TestListExecutions_Paging(t *testing.T) {
	pages := map[string]map[string]any{
		"": {
			"notebookExecutionJobs": []map[string]any{{"name": parent + "/notebookExecutionJobs/a"}, {"name": parent + "/notebookExecutionJobs/b"}},
			"nextPageToken":         "page2",
		},
		"page2": {
			"notebookExecutionJobs": []map[string]any{{"name": parent + "/notebookExecutionJobs/c"}},
		},
	}

	var requests int
	var query http.Header
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/v1/"+parent+"/notebookExecutionJobs", r.URL.Path)
		query = http.Header(r.URL.Query())
		writeJSON(t, w, http.StatusOK, pages[r.URL.Query().Get("pageToken")])
	})

	t.Run("all pages", func(t *testing.T) {
		requests = 0
		client := newTestClient(t, handler)
		jobs, err := client.ListExecutions(context.Background(), parent, notebooks.ListOptions{
			Filter:   `displayName="nightly"`,
			OrderBy:  "createTime desc",
			PageSize: 2,
		})
		require.NoError(t, err)
		require.Len(t, jobs, 3)
		assert.Equal(t, parent+"/notebookExecutionJobs/c", jobs[2].Name)
		assert.Equal(t, 2, requests)
		assert.Equal(t, `displayName="nightly"`, query["filter"][0])
		assert.Equal(t, "createTime desc", query["orderBy"][0])
		assert.Equal(t, "2", query["pageSize"][0])
	})

	t.Run("limit stops paging", func(t *testing.T) {
		requests = 0
		client := newTestClient(t, handler)
		jobs, err := client.ListExecutions(context.Background(), parent, notebooks.ListOptions{Limit: 1})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, 1, requests)
	})
}

func TestGetOperation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/"+parent+"/operations/42", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"name":  parent + "/operations/42",
			"done":  true,
			"error": map[string]any{"code": 9, "message": "runtime template not found"},
		})
	}))

	op, err := client.GetOperation(context.Background(), parent+"/operations/42")
	require.NoError(t, err)
	assert.True(t, op.Done)
	require.ErrorIs(t, op.Err(), notebooks.ErrOperationFailed)
	assert.Contains(t, op.Err().Error(), "runtime template not found")
}

func TestDeleteExecution(t *testing.T) {
	name := parent + "/notebookExecutionJobs/run-1"
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/"+name, r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"name": parent + "/operations/43", "done": true})
	}))

	op, err := client.DeleteExecution(context.Background(), name)
	require.NoError(t, err)
	assert.True(t, op.Done)
	assert.NoError(t, op.Err())
}

func TestRegionMismatch(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		writeJSON(t, w, http.StatusOK, map[string]any{})
	}))
	ctx := context.Background()
	other := "projects/p/locations/europe-west4"

	_, err := client.CreateExecution(ctx, other, notebooks.ExecutionJob{}, "")
	assert.ErrorIs(t, err, ErrRegionMismatch)
	_, err = client.GetExecution(ctx, other+"/notebookExecutionJobs/a")
	assert.ErrorIs(t, err, ErrRegionMismatch)
	_, err = client.DeleteExecution(ctx, other+"/notebookExecutionJobs/a")
	assert.ErrorIs(t, err, ErrRegionMismatch)
	_, err = client.ListExecutions(ctx, other, notebooks.ListOptions{})
	assert.ErrorIs(t, err, ErrRegionMismatch)
	_, err = client.GetOperation(ctx, other+"/operations/1")
	assert.ErrorIs(t, err, ErrRegionMismatch)

	assert.Zero(t, requests, "nothing is sent to the wrong endpoint")
}
