// File: internal/flags/resources.go
package flags

import (
	"fmt"

	"notebookexec/internal/argparse"
	"notebookexec/internal/concepts"
)

const (
	RegionCollection          = "aiplatform.projects.locations"
	ExecutionCollection       = "aiplatform.projects.locations.notebookExecutionJobs"
	RuntimeTemplateCollection = "aiplatform.projects.locations.notebookRuntimeTemplates"
	DataformCollection        = "dataform.projects.locations.repositories"
	KmsKeyCollection          = "cloudkms.projects.locations.keyRings.cryptoKeys"
)

func RegionAttributeConfig() concepts.AttributeConfig {
	return concepts.AttributeConfig{
		Name:     "region",
		HelpText: "Cloud region for the {resource}.",
		Fallthroughs: []concepts.Fallthrough{
			concepts.PropertyFallthrough{Key: RegionProperty},
		},
	}
}

// Adds the positional execution argument. verb describes the action, e.g. "to delete"
func AddExecutionResourceArg(c argparse.Container, verb string) {
	spec := concepts.MustResourceSpec(ExecutionCollection, "notebook execution job", map[string]concepts.AttributeConfig{
		"projectsId":              concepts.DefaultProjectAttributeConfig(),
		"locationsId":             RegionAttributeConfig(),
		"notebookExecutionJobsId": {Name: "execution"},
	})

	concepts.ForResource(
		Execution,
		spec,
		fmt.Sprintf("Unique name of the execution %s. This was optionally provided by setting"+
			" --execution-job-id in the create execution command or was"+
			" system-generated if unspecified.", verb),
		concepts.Required(true),
	).AddToParser(c)
}

// Adds --dataform-repository-name. Its region is not exposed as a flag and
// defaults to the execution region
func AddDataformRepositoryResourceArg(c argparse.Container) {
	spec := concepts.MustResourceSpec(DataformCollection, "dataform repository", map[string]concepts.AttributeConfig{
		"projectsId":     concepts.DefaultProjectAttributeConfig(),
		"locationsId":    RegionAttributeConfig(),
		"repositoriesId": {Name: "dataform-repository-name"},
	})

	pres := concepts.PresentationSpec{
		Name:      DataformRepositoryName,
		Spec:      spec,
		GroupHelp: "Unique name of the Dataform repository to source input notebook from.",
		Required:  true,
		// The flag still accepts a fully qualified name
		// (projects/*/locations/*/repositories/*) or just the repository ID
		FlagNameOverrides: map[string]string{"region": ""},
	}
	concepts.NewConceptParser(
		[]concepts.PresentationSpec{pres},
		map[string][]string{DataformRepositoryName + ".region": {Region}},
	).AddToParser(c)
}

// Adds the --region resource argument. verb describes the action, e.g. "to create"
func AddRegionResourceArg(c argparse.Container, verb string) {
	spec := concepts.MustResourceSpec(RegionCollection, "region", map[string]concepts.AttributeConfig{
		"locationsId": RegionAttributeConfig(),
		"projectsId":  concepts.DefaultProjectAttributeConfig(),
	})

	concepts.ForResource(
		Region,
		spec,
		fmt.Sprintf("Cloud region %s.", verb),
		concepts.Required(true),
	).AddToParser(c)
}

// Adds --notebook-runtime-template. Its region defaults to the execution region
func AddRuntimeTemplateResourceArg(c argparse.Container) {
	spec := concepts.MustResourceSpec(RuntimeTemplateCollection, "notebook runtime template", map[string]concepts.AttributeConfig{
		"projectsId":                 concepts.DefaultProjectAttributeConfig(),
		"locationsId":                RegionAttributeConfig(),
		"notebookRuntimeTemplatesId": {Name: "notebook-runtime-template"},
	})

	pres := concepts.PresentationSpec{
		Name: NotebookRuntimeTemplate,
		Spec: spec,
		GroupHelp: "The runtime template specifying the compute configuration for the" +
			" notebook execution. The runtime template should be in the same region" +
			" as the execution.",
		Required: true,
		// Accepts projects/*/locations/*/notebookRuntimeTemplates/* or just the ID
		FlagNameOverrides: map[string]string{"region": ""},
	}
	concepts.NewConceptParser(
		[]concepts.PresentationSpec{pres},
		map[string][]string{NotebookRuntimeTemplate + ".region": {Region}},
	).AddToParser(c)
}

// Adds the optional --kms-key resource argument with its keyring, location and project flags
func AddKmsKeyResourceArg(c argparse.Container, helpText string) {
	spec := concepts.MustResourceSpec(KmsKeyCollection, "key", map[string]concepts.AttributeConfig{
		// The anchor help text is generated
		"cryptoKeysId": {Name: "kms-key"},
		"keyRingsId":   {Name: "kms-keyring", HelpText: "KMS keyring id of the {resource}."},
		"locationsId":  {Name: "kms-location", HelpText: "Cloud location for the {resource}."},
		"projectsId": {
			Name:     "kms-project",
			HelpText: "Cloud project id for the {resource}.",
			Fallthroughs: []concepts.Fallthrough{
				concepts.ArgFallthrough{Arg: "--" + Project},
				concepts.PropertyFallthrough{Key: ProjectProperty},
			},
		},
	})

	concepts.ForResource(KmsKey, spec, helpText, concepts.Required(false)).AddToParser(c)
}
