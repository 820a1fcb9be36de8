// File: pkg/formatter/execution_formatter.go
package formatter

import (
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"notebookexec/pkg/notebooks"
)

type ExecutionFormatter struct{}

func NewExecutionFormatter() *ExecutionFormatter {
	return &ExecutionFormatter{}
}

// executionView is the serialized shape of an execution for json and yaml output.
// Field names follow the REST resource
type executionView struct {
	Name                                string              `json:"name" yaml:"name"`
	DisplayName                         string              `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	JobState                            string              `json:"jobState,omitempty" yaml:"jobState,omitempty"`
	StatusMessage                       string              `json:"statusMessage,omitempty" yaml:"statusMessage,omitempty"`
	DataformRepositorySource            *dataformSourceView `json:"dataformRepositorySource,omitempty" yaml:"dataformRepositorySource,omitempty"`
	GcsNotebookSource                   *gcsSourceView      `json:"gcsNotebookSource,omitempty" yaml:"gcsNotebookSource,omitempty"`
	DirectNotebookSource                *directSourceView   `json:"directNotebookSource,omitempty" yaml:"directNotebookSource,omitempty"`
	ExecutionTimeout                    string              `json:"executionTimeout,omitempty" yaml:"executionTimeout,omitempty"`
	NotebookRuntimeTemplateResourceName string              `json:"notebookRuntimeTemplateResourceName,omitempty" yaml:"notebookRuntimeTemplateResourceName,omitempty"`
	GcsOutputURI                        string              `json:"gcsOutputUri,omitempty" yaml:"gcsOutputUri,omitempty"`
	ExecutionUser                       string              `json:"executionUser,omitempty" yaml:"executionUser,omitempty"`
	ServiceAccount                      string              `json:"serviceAccount,omitempty" yaml:"serviceAccount,omitempty"`
	EncryptionSpec                      *encryptionSpecView `json:"encryptionSpec,omitempty" yaml:"encryptionSpec,omitempty"`
	Labels                              map[string]string   `json:"labels,omitempty" yaml:"labels,omitempty"`
	CreateTime                          string              `json:"createTime,omitempty" yaml:"createTime,omitempty"`
	UpdateTime                          string              `json:"updateTime,omitempty" yaml:"updateTime,omitempty"`
}

type dataformSourceView struct {
	DataformRepositoryResourceName string `json:"dataformRepositoryResourceName" yaml:"dataformRepositoryResourceName"`
	CommitSha                      string `json:"commitSha,omitempty" yaml:"commitSha,omitempty"`
}

type gcsSourceView struct {
	URI        string `json:"uri" yaml:"uri"`
	Generation string `json:"generation,omitempty" yaml:"generation,omitempty"`
}

// Content is summarized; notebooks can be large
type directSourceView struct {
	ContentBytes int `json:"contentBytes" yaml:"contentBytes"`
}

type encryptionSpecView struct {
	KmsKeyName string `json:"kmsKeyName" yaml:"kmsKeyName"`
}

func newExecutionView(job notebooks.ExecutionJob) executionView {
	v := executionView{
		Name:                                job.Name,
		DisplayName:                         job.DisplayName,
		JobState:                            string(job.State),
		StatusMessage:                       job.StatusMessage,
		NotebookRuntimeTemplateResourceName: job.RuntimeTemplateResource,
		GcsOutputURI:                        job.GcsOutputURI,
		ExecutionUser:                       job.ExecutionUser,
		ServiceAccount:                      job.ServiceAccount,
		Labels:                              job.Labels,
		CreateTime:                          formatTimestamp(job.CreatedAt),
		UpdateTime:                          formatTimestamp(job.UpdatedAt),
	}
	if job.ExecutionTimeout > 0 {
		v.ExecutionTimeout = strconv.FormatFloat(job.ExecutionTimeout.Seconds(), 'f', -1, 64) + "s"
	}
	if job.DataformSource != nil {
		v.DataformRepositorySource = &dataformSourceView{
			DataformRepositoryResourceName: job.DataformSource.RepositoryResourceName,
			CommitSha:                      job.DataformSource.CommitSHA,
		}
	}
	if job.GcsSource != nil {
		v.GcsNotebookSource = &gcsSourceView{URI: job.GcsSource.URI, Generation: job.GcsSource.Generation}
	}
	if job.DirectSource != nil {
		v.DirectNotebookSource = &directSourceView{ContentBytes: len(job.DirectSource.Content)}
	}
	if job.KmsKeyName != "" {
		v.EncryptionSpec = &encryptionSpecView{KmsKeyName: job.KmsKeyName}
	}
	return v
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func (f *ExecutionFormatter) FormatExecutionList(jobs []notebooks.ExecutionJob, format Format) (string, error) {
	if format != FormatTable {
		views := make([]executionView, 0, len(jobs))
		for _, job := range jobs {
			views = append(views, newExecutionView(job))
		}
		return marshal(views, format)
	}

	table := NewTable([]string{"ID", "DISPLAY NAME", "STATE", "CREATE TIME"})
	for _, job := range jobs {
		created := ""
		if !job.CreatedAt.IsZero() {
			created = job.CreatedAt.Format("2006-01-02 15:04")
		}
		table.AddRow([]string{
			path.Base(job.Name),
			job.DisplayName,
			renderState(job.State),
			created,
		})
	}
	return table.String(), nil
}

func (f *ExecutionFormatter) FormatExecutionDetails(job notebooks.ExecutionJob, format Format) (string, error) {
	if format != FormatTable {
		return marshal(newExecutionView(job), format)
	}

	var sb strings.Builder

	title := job.DisplayName
	if title == "" {
		title = path.Base(job.Name)
	}
	sb.WriteString(FormatHeaderSection("Execution: " + title))
	sb.WriteString("\n\n")

	sb.WriteString(FormatSectionTitle("Overview"))
	sb.WriteString("\n")

	overviewTable := NewTable([]string{"PARAMETER", "VALUE"})
	details := []struct {
		Key   string
		Value string
	}{
		{"Name", job.Name},
		{"State", shortState(job.State)},
		{"Source", describeSource(job)},
		{"Runtime Template", job.RuntimeTemplateResource},
		{"Output Location", job.GcsOutputURI},
		{"Run As", firstNonEmpty(job.ExecutionUser, job.ServiceAccount)},
		{"Execution Timeout", formatTimeout(job.ExecutionTimeout)},
		{"Encryption Key", firstNonEmpty(job.KmsKeyName, "Google-managed")},
		{"Created On", formatDetailTime(job.CreatedAt)},
		{"Updated On", formatDetailTime(job.UpdatedAt)},
	}
	for _, detail := range details {
		overviewTable.AddRow([]string{detail.Key, detail.Value})
	}
	sb.WriteString(overviewTable.String())

	if job.StatusMessage != "" {
		sb.WriteString("\n\n")
		sb.WriteString(FormatSectionTitle("Status"))
		sb.WriteString("\n")
		sb.WriteString(job.StatusMessage)
	}

	if len(job.Labels) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(FormatSectionTitle("Labels"))
		sb.WriteString("\n")

		keys := make([]string, 0, len(job.Labels))
		for k := range job.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		labelsTable := NewTable([]string{"KEY", "VALUE"})
		for _, k := range keys {
			labelsTable.AddRow([]string{k, job.Labels[k]})
		}
		sb.WriteString(labelsTable.String())
	}

	return sb.String(), nil
}

func describeSource(job notebooks.ExecutionJob) string {
	switch {
	case job.DataformSource != nil:
		ref := "HEAD"
		if job.DataformSource.CommitSHA != "" {
			ref = job.DataformSource.CommitSHA
		}
		return job.DataformSource.RepositoryResourceName + " @ " + ref
	case job.GcsSource != nil:
		if job.GcsSource.Generation != "" {
			return job.GcsSource.URI + "#" + job.GcsSource.Generation
		}
		return job.GcsSource.URI
	case job.DirectSource != nil:
		return "inline notebook (" + strconv.Itoa(len(job.DirectSource.Content)) + " bytes)"
	default:
		return ""
	}
}

// Finished jobs are colored by outcome, jobs still in flight are left plain
func renderState(s notebooks.JobState) string {
	if !s.IsTerminal() {
		return shortState(s)
	}
	if s == notebooks.JobStateSucceeded {
		return succeededStyle.Render(shortState(s))
	}
	return failedStyle.Render(shortState(s))
}

// JOB_STATE_RUNNING -> RUNNING
func shortState(s notebooks.JobState) string {
	return strings.TrimPrefix(string(s), "JOB_STATE_")
}

func formatTimeout(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.String()
}

func formatDetailTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC1123)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
