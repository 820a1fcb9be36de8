// File: cmd/notebookexec/config_cmd.go
package main

import (
	"fmt"
	"sort"
	"strings"

	"notebookexec/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *appContainer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration properties",
		Long: `Manage configuration properties such as the default project and region.
Properties are stored in ` + "`~/.config/notebookexec/config.yaml`" + ` and can be
overridden with NOTEBOOKEXEC_<SECTION>_<KEY> environment variables.

Supported keys: ` + strings.Join(config.SupportedKeys(), ", "),
	}

	configSetCmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration property",
		Long:  `Sets a configuration property. For example: 'notebookexec config set ai.region us-central1'`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			value := args[1]

			if err := app.ConfigManager.SetValue(key, value); err != nil {
				return fmt.Errorf("error setting configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated property [%s] to [%s].\n", key, value)
			return nil
		},
	}

	configGetCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration property",
		Long:  `Prints the effective value of a property. For example: 'notebookexec config get core.project'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			value, exists := app.ConfigManager.GetValue(key)
			if !exists {
				return fmt.Errorf("configuration key '%s' not found or not set", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	configDeleteCmd := &cobra.Command{
		Use:     "delete [key]",
		Aliases: []string{"unset"},
		Short:   "Delete a configuration property",
		Long:    `Removes a property from the configuration file. For example: 'notebookexec config delete ai.region'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			deleted, err := app.ConfigManager.DeleteValue(key)
			if err != nil {
				return fmt.Errorf("error deleting configuration: %w", err)
			}
			if !deleted {
				return fmt.Errorf("configuration key '%s' is not set in %s", key, app.ConfigManager.Path())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset property [%s].\n", key)
			return nil
		},
	}

	configListCmd := &cobra.Command{
		Use:   "list",
		Short: "List the effective configuration",
		Long:  `Displays every property with a value, after applying defaults and environment overrides.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := flattenConfigMap(app.ConfigManager.GetAllSettings())

			keys := make([]string, 0, len(settings))
			for k, v := range settings {
				if v == nil || fmt.Sprint(v) == "" {
					continue
				}
				keys = append(keys, k)
			}

			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintln(out, "No configuration values set. Use 'notebookexec config set <key> <value>'.")
				return nil
			}
			sort.Strings(keys)

			section := ""
			for _, k := range keys {
				sec, name, _ := strings.Cut(k, ".")
				if sec != section {
					fmt.Fprintf(out, "[%s]\n", sec)
					section = sec
				}
				fmt.Fprintf(out, "%s = %v\n", name, settings[k])
			}
			return nil
		},
	}

	configCmd.AddCommand(configSetCmd, configGetCmd, configDeleteCmd, configListCmd)
	return configCmd
}

// Recursively flattens a nested map (like Viper's config) into a flat map with dot notation keys
func flattenConfigMap(nestedMap map[string]any) map[string]any {
	flattenedMap := make(map[string]any)

	var flatten func(string, any)
	flatten = func(prefix string, value any) {
		switch v := value.(type) {
		case map[string]any:
			for k, val := range v {
				newPrefix := k
				if prefix != "" {
					newPrefix = prefix + "." + k
				}
				flatten(newPrefix, val)
			}
		default:
			if prefix != "" {
				flattenedMap[prefix] = value
			}
		}
	}

	flatten("", nestedMap)
	return flattenedMap
}
