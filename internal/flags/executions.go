// File: internal/flags/executions.go
package flags

import (
	"notebookexec/internal/argparse"
	"notebookexec/pkg/notebooks"
)

// Adds the standard --async flag
func AddAsyncFlag(c argparse.Container) {
	c.AddArgument(argparse.Argument{
		Name: Async,
		Help: "Return immediately, without waiting for the operation in progress to complete.",
		Kind: argparse.Bool,
	})
}

// Adds flags for creating an execution to the parser
func AddCreateExecutionFlags(p *argparse.Parser) {
	AddRegionResourceArg(p, "to create")

	executionGroup := p.AddGroup(argparse.GroupOptions{
		Help:     "Configuration of the execution job.",
		Required: true,
	})
	executionGroup.AddArgument(argparse.Argument{
		Name:     DisplayName,
		Help:     "The display name of the execution.",
		Required: true,
	})

	notebookSourceGroup := executionGroup.AddGroup(argparse.GroupOptions{
		Help:     "Source of the notebook to execute.",
		Required: true,
		Mutex:    true,
	})
	dataformSourceGroup := notebookSourceGroup.AddGroup(argparse.GroupOptions{
		Help: "The Dataform repository containing the notebook. Any notebook" +
			" created from the Colab UI is automatically stored in a Dataform" +
			" repository. The repository name can be found via the Dataform" +
			" API by listing repositories in the same project and region as the" +
			" notebook.",
	})
	AddDataformRepositoryResourceArg(dataformSourceGroup)
	dataformSourceGroup.AddArgument(argparse.Argument{
		Name: CommitSHA,
		Help: "The commit SHA to read from the Dataform repository. If unset, the" +
			" file will be read from HEAD.",
	})

	gcsSourceGroup := notebookSourceGroup.AddGroup(argparse.GroupOptions{
		Help: "The Cloud Storage notebook source.",
	})
	gcsSourceGroup.AddArgument(argparse.Argument{
		Name: GcsNotebookURI,
		Help: "The Cloud Storage uri pointing to the notebook. Format: " +
			"gs://bucket/notebook_file.ipynb",
		Required: true,
	})
	gcsSourceGroup.AddArgument(argparse.Argument{
		Name: Generation,
		Help: "The version of the Cloud Storage object to read. If unset, the" +
			" current version of the object will be used.",
	})

	notebookSourceGroup.AddArgument(argparse.Argument{
		Name: DirectContentFromFile,
		Help: "The local filepath to an .ipynb file containing the notebook content.",
	})

	executionGroup.AddArgument(argparse.Argument{
		Name: ExecutionTimeout,
		Help: "The max running time of the execution job, as a duration" +
			" (e.g. 30m, 1h30m, 2d or PT12H).",
		Kind:    argparse.Duration,
		Default: DefaultExecutionTimeout,
	})
	AddRuntimeTemplateResourceArg(executionGroup)
	executionGroup.AddArgument(argparse.Argument{
		Name: GcsOutputURI,
		Help: "The Cloud Storage location to upload notebook execution results to." +
			" Format: gs://bucket-name.",
		Required: true,
	})

	identityGroup := executionGroup.AddGroup(argparse.GroupOptions{
		Help:     "Identity to run the execution as.",
		Mutex:    true,
		Required: true,
	})
	identityGroup.AddArgument(argparse.Argument{
		Name: UserEmail,
		Help: "The user email to run the execution as. This requires the provided" +
			" runtime template to have end user credentials enabled.",
	})
	identityGroup.AddArgument(argparse.Argument{
		Name: ServiceAccount,
		Help: "The service account to run the execution as.",
	})

	AddKmsKeyResourceArg(
		executionGroup,
		"The Cloud KMS encryption key (customer-managed encryption key) to"+
			" protect the execution. If the notebook runtime template already"+
			" specifies a customer-managed encryption key, that key will be used."+
			" If unspecified in both, Google-managed encryption keys will be used.",
	)

	p.AddArgument(argparse.Argument{
		Name: ExecutionJobID,
		Help: "The id to assign to the execution job. If not specified, a random id" +
			" will be generated.",
	})
	AddAsyncFlag(p)
}

// Adds flags for deleting an execution to the parser
func AddDeleteExecutionFlags(p *argparse.Parser) {
	AddExecutionResourceArg(p, "to delete")
	AddAsyncFlag(p)
}

// Adds flags for describing an execution to the parser
func AddDescribeExecutionFlags(p *argparse.Parser) {
	AddExecutionResourceArg(p, "to describe")
}

// Adds the region whose executions are listed and the URI function used by --uri
func AddListExecutionsFlags(p *argparse.Parser) {
	AddRegionResourceArg(p, "for which to list all executions")
	p.DisplayInfo().AddURIFunc(notebooks.ExecutionURI)
}

// Adds the common list flags: --uri, --limit, --page-size, --filter and --sort-by
func AddListFlags(p *argparse.Parser) {
	p.AddArgument(argparse.Argument{
		Name: URI,
		Help: "Print a list of resource URIs instead of the default output.",
		Kind: argparse.Bool,
	})
	p.AddArgument(argparse.Argument{
		Name: Limit,
		Help: "Maximum number of resources to list. The default is unlimited.",
		Kind: argparse.Int,
	})
	p.AddArgument(argparse.Argument{
		Name: PageSize,
		Help: "Some services group resource list output into pages. This flag" +
			" specifies the maximum number of resources per page.",
		Kind: argparse.Int,
	})
	p.AddArgument(argparse.Argument{
		Name: Filter,
		Help: "Server side filter expression applied to the listed resources.",
	})
	p.AddArgument(argparse.Argument{
		Name: SortBy,
		Help: "Comma-separated list of resource field names to sort by.",
	})
}
