// File: internal/flags/flags.go
package flags

// Centralized definitions for CLI flags used across the application

const (
	// Global flags, defined once as persistent flags on the root command
	Project    = "project"
	Format     = "format"
	Quiet      = "quiet"
	QuietShort = "q"
	Debug      = "debug"
	DebugShort = "d"

	// Resource arguments. The execution is positional, everything else is a flag
	Execution               = "execution"
	Region                  = "--region"
	NotebookRuntimeTemplate = "--notebook-runtime-template"
	DataformRepositoryName  = "--dataform-repository-name"
	KmsKey                  = "--kms-key"
	KmsKeyring              = "--kms-keyring"
	KmsLocation             = "--kms-location"
	KmsProject              = "--kms-project"

	// Execution job configuration
	DisplayName           = "--display-name"
	CommitSHA             = "--commit-sha"
	GcsNotebookURI        = "--gcs-notebook-uri"
	Generation            = "--generation"
	DirectContentFromFile = "--direct-content-from-file"
	ExecutionTimeout      = "--execution-timeout"
	GcsOutputURI          = "--gcs-output-uri"
	UserEmail             = "--user-email"
	ServiceAccount        = "--service-account"
	ExecutionJobID        = "--execution-job-id"

	// Async flags are used to return before a long running operation completes
	Async = "--async"

	// List flags
	URI      = "--uri"
	Limit    = "--limit"
	PageSize = "--page-size"
	Filter   = "--filter"
	SortBy   = "--sort-by"
)

const DefaultExecutionTimeout = "24h"

// Property keys read by fallthroughs
const (
	ProjectProperty = "core.project"
	RegionProperty  = "ai.region"
)
