// File: cmd/notebookexec/create_request.go
package main

import (
	"fmt"
	"os"
	"strings"

	"notebookexec/internal/argparse"
	"notebookexec/internal/concepts"
	"notebookexec/internal/flags"
	"notebookexec/pkg/notebooks"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type createRequest struct {
	// projects/*/locations/*
	Parent string
	JobID  string
	Job    notebooks.ExecutionJob
}

// Builds the API request from a parsed create invocation
func buildCreateRequest(ns *argparse.Namespace) (*createRequest, error) {
	region, err := concepts.Parse(ns, flags.Region)
	if err != nil {
		return nil, err
	}
	template, err := concepts.Parse(ns, flags.NotebookRuntimeTemplate)
	if err != nil {
		return nil, err
	}
	kmsKey, err := concepts.Parse(ns, flags.KmsKey)
	if err != nil {
		return nil, err
	}

	// Jobs can only use a runtime template from their own region
	if templateRegion := template.Parent().Name(); templateRegion != region.Name() {
		return nil, argparse.InvalidValueError(flags.NotebookRuntimeTemplate, template.RelativeName(),
			fmt.Errorf("template is in region %s, execution is created in %s", templateRegion, region.Name()))
	}

	timeout := ns.Duration(flags.ExecutionTimeout)
	if timeout <= 0 {
		return nil, argparse.InvalidValueError(flags.ExecutionTimeout, timeout.String(), fmt.Errorf("must be greater than zero"))
	}

	outputURI := ns.String(flags.GcsOutputURI)
	if err := checkGcsURI(flags.GcsOutputURI, outputURI); err != nil {
		return nil, err
	}

	job := notebooks.ExecutionJob{
		DisplayName:             ns.String(flags.DisplayName),
		ExecutionTimeout:        timeout,
		RuntimeTemplateResource: template.RelativeName(),
		GcsOutputURI:            outputURI,
	}

	if err := setNotebookSource(ns, &job); err != nil {
		return nil, err
	}
	if err := setIdentity(ns, &job); err != nil {
		return nil, err
	}
	if kmsKey != nil {
		job.KmsKeyName = kmsKey.RelativeName()
	}

	return &createRequest{
		Parent: region.RelativeName(),
		JobID:  ns.String(flags.ExecutionJobID),
		Job:    job,
	}, nil
}

// Exactly one source is present once the parser has accepted the command line
func setNotebookSource(ns *argparse.Namespace, job *notebooks.ExecutionJob) error {
	switch {
	case ns.IsSpecified(flags.DataformRepositoryName):
		repo, err := concepts.Parse(ns, flags.DataformRepositoryName)
		if err != nil {
			return err
		}
		job.DataformSource = &notebooks.DataformSource{
			RepositoryResourceName: repo.RelativeName(),
			CommitSHA:              ns.String(flags.CommitSHA),
		}
	case ns.IsSpecified(flags.GcsNotebookURI):
		uri := ns.String(flags.GcsNotebookURI)
		if err := checkGcsURI(flags.GcsNotebookURI, uri); err != nil {
			return err
		}
		job.GcsSource = &notebooks.GcsSource{
			URI:        uri,
			Generation: ns.String(flags.Generation),
		}
	case ns.IsSpecified(flags.DirectContentFromFile):
		path := ns.String(flags.DirectContentFromFile)
		content, err := os.ReadFile(path)
		if err != nil {
			return argparse.InvalidValueError(flags.DirectContentFromFile, path, err)
		}
		job.DirectSource = &notebooks.DirectSource{Content: content}
	default:
		return fmt.Errorf("no notebook source given")
	}
	return nil
}

func setIdentity(ns *argparse.Namespace, job *notebooks.ExecutionJob) error {
	if ns.IsSpecified(flags.UserEmail) {
		email := ns.String(flags.UserEmail)
		if err := validate.Var(email, "required,email"); err != nil {
			return argparse.InvalidValueError(flags.UserEmail, email, fmt.Errorf("not a valid email address"))
		}
		job.ExecutionUser = email
		return nil
	}

	account := ns.String(flags.ServiceAccount)
	if err := validate.Var(account, "required,email"); err != nil {
		return argparse.InvalidValueError(flags.ServiceAccount, account, fmt.Errorf("not a valid service account email"))
	}
	job.ServiceAccount = account
	return nil
}

func checkGcsURI(flag, uri string) error {
	if !strings.HasPrefix(uri, "gs://") || len(uri) == len("gs://") {
		return argparse.InvalidValueError(flag, uri, fmt.Errorf("expected a Cloud Storage URI of the form gs://bucket/path"))
	}
	return nil
}
