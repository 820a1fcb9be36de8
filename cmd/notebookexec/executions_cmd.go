// File: cmd/notebookexec/executions_cmd.go
package main

import (
	"context"
	"errors"
	"fmt"

	"notebookexec/internal/argparse"
	"notebookexec/internal/concepts"
	"notebookexec/internal/flags"
	"notebookexec/internal/ui/progress"
	"notebookexec/internal/ui/prompt"
	"notebookexec/pkg/formatter"
	"notebookexec/pkg/notebooks"

	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted by user")

func newExecutionsCmd(app *appContainer) *cobra.Command {
	executionsCmd := &cobra.Command{
		Use:     "executions",
		Aliases: []string{"execution"},
		Short:   "Manage Colab Enterprise notebook executions",
		Long:    `The executions command allows you to create, describe, list, and delete notebook execution jobs.`,
	}

	executionsCmd.AddCommand(
		newCreateExecutionCmd(app),
		newDeleteExecutionCmd(app),
		newDescribeExecutionCmd(app),
		newListExecutionsCmd(app),
	)
	return executionsCmd
}

func newCreateExecutionCmd(app *appContainer) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a notebook execution job",
		Long: `Creates a notebook execution job. The notebook is read from exactly one of
a Dataform repository, a Cloud Storage object, or a local .ipynb file, and
runs as either an end user (--user-email) or a service account.`,
		Example: `  notebookexec executions create --display-name=my-run --region=us-central1 \
      --gcs-notebook-uri=gs://bucket/nb.ipynb --notebook-runtime-template=t1 \
      --gcs-output-uri=gs://bucket/out --service-account=sa@p.iam.gserviceaccount.com`,
	}
	parser := argparse.NewParser(createCmd, app.ConfigManager)
	flags.AddCreateExecutionFlags(parser)

	createCmd.RunE = func(cmd *cobra.Command, args []string) error {
		ns, err := parser.Parse(cmd, args)
		if err != nil {
			return err
		}
		req, err := buildCreateRequest(ns)
		if err != nil {
			return err
		}

		op, err := app.ExecutionService.Create(cmd.Context(), req.Parent, req.Job, req.JobID)
		if err != nil {
			return fmt.Errorf("error creating execution '%s': %w", req.Job.DisplayName, err)
		}

		out := cmd.OutOrStdout()
		if ns.Bool(flags.Async) {
			fmt.Fprintf(out, "Create request issued for execution [%s]. Check operation [%s] for its status.\n", req.Job.DisplayName, op.Name)
			return nil
		}

		if err := app.waitForOperation(cmd, "Waiting for execution to be created", op); err != nil {
			return fmt.Errorf("error creating execution '%s': %w", req.Job.DisplayName, err)
		}
		fmt.Fprintf(out, "Created execution [%s] in %s.\n", req.Job.DisplayName, req.Parent)
		return nil
	}
	return createCmd
}

func newDeleteExecutionCmd(app *appContainer) *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   "delete EXECUTION",
		Short: "Delete a notebook execution job",
		Long: `Deletes a notebook execution job. EXECUTION is the execution ID, with the
region taken from --region or the ai.region property, or a full resource name.`,
	}
	parser := argparse.NewParser(deleteCmd, app.ConfigManager)
	flags.AddDeleteExecutionFlags(parser)

	deleteCmd.RunE = func(cmd *cobra.Command, args []string) error {
		ns, err := parser.Parse(cmd, args)
		if err != nil {
			return err
		}
		execution, err := concepts.Parse(ns, flags.Execution)
		if err != nil {
			return err
		}

		var prompter prompt.Prompter = prompt.AutoApprove{}
		if !quiet(cmd) {
			prompter = prompt.NewStandardPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		}
		confirmed, err := prompter.Confirm(
			fmt.Sprintf("You are about to delete execution [%s].", execution.RelativeName()),
			execution.Name(),
		)
		if err != nil {
			return err
		}
		if !confirmed {
			return errAborted
		}

		op, err := app.ExecutionService.Delete(cmd.Context(), execution.RelativeName())
		if err != nil {
			return fmt.Errorf("error deleting execution '%s': %w", execution.Name(), err)
		}

		out := cmd.OutOrStdout()
		if ns.Bool(flags.Async) {
			fmt.Fprintf(out, "Delete request issued for execution [%s]. Check operation [%s] for its status.\n", execution.Name(), op.Name)
			return nil
		}

		if err := app.waitForOperation(cmd, "Waiting for execution to be deleted", op); err != nil {
			return fmt.Errorf("error deleting execution '%s': %w", execution.Name(), err)
		}
		fmt.Fprintf(out, "Deleted execution [%s].\n", execution.RelativeName())
		return nil
	}
	return deleteCmd
}

func newDescribeExecutionCmd(app *appContainer) *cobra.Command {
	describeCmd := &cobra.Command{
		Use:   "describe EXECUTION",
		Short: "Describe a notebook execution job",
		Long:  `Shows the configuration and state of a notebook execution job.`,
	}
	parser := argparse.NewParser(describeCmd, app.ConfigManager)
	flags.AddDescribeExecutionFlags(parser)

	describeCmd.RunE = func(cmd *cobra.Command, args []string) error {
		ns, err := parser.Parse(cmd, args)
		if err != nil {
			return err
		}
		execution, err := concepts.Parse(ns, flags.Execution)
		if err != nil {
			return err
		}
		format, err := app.outputFormat(cmd)
		if err != nil {
			return err
		}

		job, err := app.ExecutionService.Describe(cmd.Context(), execution.RelativeName())
		if err != nil {
			return fmt.Errorf("error describing execution '%s': %w", execution.Name(), err)
		}

		output, err := app.ExecutionFormatter.FormatExecutionDetails(job, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	}
	return describeCmd
}

func newListExecutionsCmd(app *appContainer) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notebook execution jobs in a region",
		Long: `Lists the notebook execution jobs of a region. Use --filter and --sort-by
for server side filtering and ordering, or --uri to print resource URIs only.`,
	}
	parser := argparse.NewParser(listCmd, app.ConfigManager)
	flags.AddListExecutionsFlags(parser)
	flags.AddListFlags(parser)

	listCmd.RunE = func(cmd *cobra.Command, args []string) error {
		ns, err := parser.Parse(cmd, args)
		if err != nil {
			return err
		}
		region, err := concepts.Parse(ns, flags.Region)
		if err != nil {
			return err
		}
		opts, err := listOptions(ns)
		if err != nil {
			return err
		}
		format, err := app.outputFormat(cmd)
		if err != nil {
			return err
		}

		jobs, err := app.ExecutionService.List(cmd.Context(), region.RelativeName(), opts)
		if err != nil {
			return fmt.Errorf("error listing executions in %s: %w", region.Name(), err)
		}

		out := cmd.OutOrStdout()
		if ns.Bool(flags.URI) {
			display := ns.DisplayInfo()
			for _, job := range jobs {
				uri, err := display.URI(job)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, uri)
			}
			return nil
		}

		if len(jobs) == 0 && format == formatter.FormatTable {
			fmt.Fprintln(cmd.ErrOrStderr(), "Listed 0 items.")
			return nil
		}
		output, err := app.ExecutionFormatter.FormatExecutionList(jobs, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, output)
		return nil
	}
	return listCmd
}

func listOptions(ns *argparse.Namespace) (notebooks.ListOptions, error) {
	opts := notebooks.ListOptions{
		Filter:   ns.String(flags.Filter),
		OrderBy:  ns.String(flags.SortBy),
		PageSize: ns.Int(flags.PageSize),
		Limit:    ns.Int(flags.Limit),
	}
	if opts.Limit < 0 {
		return opts, argparse.InvalidValueError(flags.Limit, fmt.Sprint(opts.Limit), fmt.Errorf("must be positive"))
	}
	if opts.PageSize < 0 {
		return opts, argparse.InvalidValueError(flags.PageSize, fmt.Sprint(opts.PageSize), fmt.Errorf("must be positive"))
	}
	return opts, nil
}

// Waits for op, showing a spinner on stderr when it is a terminal
func (app *appContainer) waitForOperation(cmd *cobra.Command, message string, op *notebooks.Operation) error {
	return progress.Run(cmd.Context(), cmd.ErrOrStderr(), message, func(ctx context.Context) error {
		_, err := app.ExecutionService.WaitForOperation(ctx, op)
		return err
	})
}
