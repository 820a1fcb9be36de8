// File: cmd/notebookexec/executions_cmd_test.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"notebookexec/internal/config"
	"notebookexec/pkg/formatter"
	"notebookexec/pkg/notebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testParent = "projects/p/locations/us-central1"

type fakeClient struct {
	mu sync.Mutex

	jobs      []notebooks.ExecutionJob
	created   *notebooks.ExecutionJob
	createdID string
	deleted   []string
	// Returned by create and delete
	op        *notebooks.Operation
}

func (f *fakeClient) CreateExecution(_ context.Context, parent string, job notebooks.ExecutionJob, jobID string) (*notebooks.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created, f.createdID = &job, jobID
	return f.operation(parent), nil
}

func (f *fakeClient) GetExecution(_ context.Context, name string) (notebooks.ExecutionJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.jobs {
		if j.Name == name {
			return j, nil
		}
	}
	return notebooks.ExecutionJob{}, notebooks.ErrNotFound
}

func (f *fakeClient) DeleteExecution(_ context.Context, name string) (*notebooks.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	return f.operation(testParent), nil
}

func (f *fakeClient) ListExecutions(context.Context, string, notebooks.ListOptions) ([]notebooks.ExecutionJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs, nil
}

func (f *fakeClient) GetOperation(_ context.Context, name string) (*notebooks.Operation, error) {
	return &notebooks.Operation{Name: name, Done: true}, nil
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) operation(parent string) *notebooks.Operation {
	op := notebooks.Operation{Name: parent + "/operations/op-1", Done: true}
	if f.op != nil {
		op = *f.op
	}
	return &op
}

func newTestApp(t *testing.T, client *fakeClient) *appContainer {
	t.Helper()
	for _, key := range []string{"NOTEBOOKEXEC_CORE_PROJECT", "NOTEBOOKEXEC_AI_REGION", "NOTEBOOKEXEC_OUTPUT_FORMAT"} {
		t.Setenv(key, "")
	}

	mgr, err := config.NewConfigManager(config.WithConfigDir(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, mgr.SetValue(config.KeyProject, "p"))
	require.NoError(t, mgr.SetValue(config.KeyRegion, "us-central1"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApp(logger, new(slog.LevelVar), mgr)
	require.NoError(t, err)

	app.ProviderFactory.WithInitializer(func(context.Context, string, *slog.Logger) (notebooks.Client, error) {
		return client, nil
	})
	return app
}

type result struct {
	stdout, stderr string
	err            error
}

func run(t *testing.T, app *appContainer, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

var createArgs = []string{
	"executions", "create",
	"--display-name", "nightly",
	"--notebook-runtime-template", "t1",
	"--gcs-notebook-uri", "gs://b/n.ipynb",
	"--gcs-output-uri", "gs://out",
	"--service-account", "sa@p.iam.gserviceaccount.com",
}

func TestCreate_Waits(t *testing.T) {
	client := &fakeClient{}
	app := newTestApp(t, client)

	res := run(t, app, "", createArgs...)
	require.NoError(t, res.err)
	assert.Equal(t, "Created execution [nightly] in "+testParent+".\n", res.stdout)
	assert.Contains(t, res.stderr, "Waiting for execution to be created...")

	require.NotNil(t, client.created)
	assert.Equal(t, testParent+"/notebookRuntimeTemplates/t1", client.created.RuntimeTemplateResource)
	assert.Equal(t, "gs://b/n.ipynb", client.created.GcsSource.URI)
	assert.Equal(t, "sa@p.iam.gserviceaccount.com", client.created.ServiceAccount)
	assert.Equal(t, "24h0m0s", client.created.ExecutionTimeout.String())
	assert.Empty(t, client.created.KmsKeyName)
}

func TestCreate_Async(t *testing.T) {
	client := &fakeClient{op: &notebooks.Operation{Name: testParent + "/operations/op-9"}}
	app := newTestApp(t, client)

	res := run(t, app, "", append(createArgs, "--async", "--execution-job-id", "run-1")...)
	require.NoError(t, res.err)
	assert.Equal(t,
		"Create request issued for execution [nightly]. Check operation ["+testParent+"/operations/op-9] for its status.\n",
		res.stdout)
	assert.Empty(t, res.stderr)
	assert.Equal(t, "run-1", client.createdID)
}

func TestCreate_OperationFails(t *testing.T) {
	client := &fakeClient{op: &notebooks.Operation{
		Name:  testParent + "/operations/op-1",
		Done:  true,
		Error: &notebooks.OperationError{Code: 9, Message: "template not found"},
	}}
	app := newTestApp(t, client)

	res := run(t, app, "", createArgs...)
	require.ErrorIs(t, res.err, notebooks.ErrOperationFailed)
	assert.Contains(t, res.err.Error(), "error creating execution 'nightly'")
	assert.Empty(t, res.stdout)
}

func TestCreate_FullRegionName(t *testing.T) {
	client := &fakeClient{}
	app := newTestApp(t, client)

	res := run(t, app, "", append(createArgs, "--region", "projects/p/locations/europe-west4")...)
	require.NoError(t, res.err)
	assert.Equal(t, "projects/p/locations/europe-west4/notebookRuntimeTemplates/t1", client.created.RuntimeTemplateResource)
	assert.Contains(t, res.stdout, "in projects/p/locations/europe-west4.")
}

func TestCreate_DirectContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(`{"cells":[]}`), 0644))

	client := &fakeClient{}
	app := newTestApp(t, client)

	res := run(t, app, "",
		"executions", "create",
		"--display-name", "local",
		"--notebook-runtime-template", "t1",
		"--direct-content-from-file", path,
		"--gcs-output-uri", "gs://out",
		"--user-email", "me@example.com",
		"--kms-key", "k", "--kms-keyring", "r", "--kms-location", "us-central1",
	)
	require.NoError(t, res.err)
	require.NotNil(t, client.created.DirectSource)
	assert.Equal(t, `{"cells":[]}`, string(client.created.DirectSource.Content))
	assert.Equal(t, "me@example.com", client.created.ExecutionUser)
	assert.Equal(t, "projects/p/locations/us-central1/keyRings/r/cryptoKeys/k", client.created.KmsKeyName)
}

func TestCreate_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "service account",
			args: []string{"--display-name", "x", "--notebook-runtime-template", "t1", "--gcs-notebook-uri", "gs://b/n.ipynb", "--gcs-output-uri", "gs://out", "--service-account", "robot"},
			want: "--service-account",
		},
		{
			name: "output uri",
			args: []string{"--display-name", "x", "--notebook-runtime-template", "t1", "--gcs-notebook-uri", "gs://b/n.ipynb", "--gcs-output-uri", "/tmp/out", "--service-account", "sa@p.iam.gserviceaccount.com"},
			want: "gs://bucket/path",
		},
		{
			name: "notebook uri",
			args: []string{"--display-name", "x", "--notebook-runtime-template", "t1", "--gcs-notebook-uri", "gs://", "--gcs-output-uri", "gs://out", "--service-account", "sa@p.iam.gserviceaccount.com"},
			want: "--gcs-notebook-uri",
		},
		{
			name: "zero timeout",
			args: []string{"--display-name", "x", "--notebook-runtime-template", "t1", "--gcs-notebook-uri", "gs://b/n.ipynb", "--gcs-output-uri", "gs://out", "--service-account", "sa@p.iam.gserviceaccount.com", "--execution-timeout", "0"},
			want: "--execution-timeout",
		},
		{
			name: "timeout out of range",
			args: []string{"--display-name", "x", "--notebook-runtime-template", "t1", "--gcs-notebook-uri", "gs://b/n.ipynb", "--gcs-output-uri", "gs://out", "--service-account", "sa@p.iam.gserviceaccount.com", "--execution-timeout", "1000000d"},
			want: "out of range",
		},
		{
			name: "template in another region",
			args: []string{"--display-name", "x", "--notebook-runtime-template", "projects/p/locations/europe-west4/notebookRuntimeTemplates/t1", "--gcs-notebook-uri", "gs://b/n.ipynb", "--gcs-output-uri", "gs://out", "--service-account", "sa@p.iam.gserviceaccount.com"},
			want: "template is in region europe-west4",
		},
		{
			name: "missing notebook file",
			args: []string{"--display-name", "x", "--notebook-runtime-template", "t1", "--direct-content-from-file", "/nonexistent/nb.ipynb", "--gcs-output-uri", "gs://out", "--service-account", "sa@p.iam.gserviceaccount.com"},
			want: "--direct-content-from-file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			res := run(t, newTestApp(t, client), "", append([]string{"executions", "create"}, tt.args...)...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.want)
			assert.Nil(t, client.created, "no request is sent")
		})
	}
}

func TestDelete(t *testing.T) {
	name := testParent + "/notebookExecutionJobs/run-1"

	t.Run("confirmed", func(t *testing.T) {
		client := &fakeClient{}
		res := run(t, newTestApp(t, client), "run-1\n", "executions", "delete", "run-1")
		require.NoError(t, res.err)
		assert.Equal(t, "Deleted execution ["+name+"].\n", res.stdout)
		assert.Contains(t, res.stderr, "You are about to delete execution ["+name+"].")
		assert.Equal(t, []string{name}, client.deleted)
	})

	t.Run("declined", func(t *testing.T) {
		client := &fakeClient{}
		res := run(t, newTestApp(t, client), "no\n", "executions", "delete", "run-1")
		require.ErrorIs(t, res.err, errAborted)
		assert.Empty(t, client.deleted)
	})

	t.Run("quiet", func(t *testing.T) {
		client := &fakeClient{}
		res := run(t, newTestApp(t, client), "", "executions", "delete", name, "--quiet")
		require.NoError(t, res.err)
		assert.NotContains(t, res.stderr, "To confirm")
		assert.Equal(t, []string{name}, client.deleted)
	})

	t.Run("async", func(t *testing.T) {
		client := &fakeClient{op: &notebooks.Operation{Name: testParent + "/operations/op-2"}}
		res := run(t, newTestApp(t, client), "", "-q", "executions", "delete", "run-1", "--async")
		require.NoError(t, res.err)
		assert.Equal(t, "Delete request issued for execution [run-1]. Check operation ["+testParent+"/operations/op-2] for its status.\n", res.stdout)
	})
}

func TestDescribe(t *testing.T) {
	name := testParent + "/notebookExecutionJobs/run-1"
	client := &fakeClient{jobs: []notebooks.ExecutionJob{{
		Name:        name,
		DisplayName: "nightly",
		State:       notebooks.JobStateRunning,
	}}}
	app := newTestApp(t, client)

	res := run(t, app, "", "executions", "describe", "run-1", "--format", "json")
	require.NoError(t, res.err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &decoded))
	assert.Equal(t, name, decoded["name"])
	assert.Equal(t, "JOB_STATE_RUNNING", decoded["jobState"])

	res = run(t, app, "", "executions", "describe", "run-1")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Execution: nightly")

	res = run(t, app, "", "executions", "describe", "missing")
	assert.ErrorIs(t, res.err, notebooks.ErrNotFound)
}

func TestList(t *testing.T) {
	client := &fakeClient{jobs: []notebooks.ExecutionJob{
		{Name: testParent + "/notebookExecutionJobs/a", DisplayName: "first"},
		{Name: testParent + "/notebookExecutionJobs/b", DisplayName: "second"},
	}}
	app := newTestApp(t, client)

	res := run(t, app, "", "executions", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "DISPLAY NAME")
	assert.Contains(t, res.stdout, "second")

	res = run(t, app, "", "executions", "list", "--uri")
	require.NoError(t, res.err)
	assert.Equal(t,
		"https://us-central1-aiplatform.googleapis.com/v1/"+testParent+"/notebookExecutionJobs/a\n"+
			"https://us-central1-aiplatform.googleapis.com/v1/"+testParent+"/notebookExecutionJobs/b\n",
		res.stdout)

	res = run(t, app, "", "executions", "list", "--limit", "-1")
	assert.Error(t, res.err)
}

func TestList_Empty(t *testing.T) {
	app := newTestApp(t, &fakeClient{})

	res := run(t, app, "", "executions", "list")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Equal(t, "Listed 0 items.\n", res.stderr)

	res = run(t, app, "", "executions", "list", "--format", "yaml")
	require.NoError(t, res.err)
	assert.Equal(t, "[]\n", res.stdout)
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	res := run(t, newTestApp(t, &fakeClient{}), "", "executions", "list", "--format", "xml")
	assert.ErrorIs(t, res.err, formatter.ErrUnsupportedFormat)
}

func TestRoot_DebugRaisesLogLevel(t *testing.T) {
	app := newTestApp(t, &fakeClient{})
	res := run(t, app, "", "--debug", "executions", "list")
	require.NoError(t, res.err)
	assert.Equal(t, slog.LevelDebug, app.LogLevel.Level())
}
