// File: cmd/notebookexec/root.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"notebookexec/internal/flags"
	"notebookexec/pkg/formatter"

	"github.com/spf13/cobra"
)

func NewRootCmd(app *appContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "notebookexec",
		Short: "notebookexec runs Colab Enterprise notebooks as Vertex AI execution jobs.",
		Long: `A command-line tool to create, describe, list, and delete notebook
execution jobs on Vertex AI. Notebooks can be read from a Dataform
repository, Cloud Storage, or a local file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, err := cmd.Flags().GetBool(flags.Debug)
			if err != nil {
				return err
			}
			if debug && app.LogLevel != nil {
				app.LogLevel.Set(slog.LevelDebug)
			}
			_, err = app.outputFormat(cmd)
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(flags.Project, "", "The Google Cloud project ID to use for this invocation. Overrides the core.project property.")
	pf.String(flags.Format, "", "Output format: table, json or yaml. Overrides the output.format property.")
	pf.BoolP(flags.Quiet, flags.QuietShort, false, "Disable all interactive prompts and assume the default answer.")
	pf.BoolP(flags.Debug, flags.DebugShort, false, "Enable debug logging.")

	rootCmd.AddCommand(newExecutionsCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	return rootCmd
}

func Execute(app *appContainer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		stop()
		os.Exit(1)
	}
}

// The --format flag wins over the output.format property
func (app *appContainer) outputFormat(cmd *cobra.Command) (formatter.Format, error) {
	value, err := cmd.Flags().GetString(flags.Format)
	if err != nil {
		return "", err
	}
	if value == "" && app.Config != nil {
		value = app.Config.Output.Format
	}
	return formatter.ParseFormat(value)
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Flags().GetBool(flags.Quiet)
	return err == nil && q
}
