package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metoxid/metoxid-cli/internal/cli"
	"github.com/metoxid/metoxid-cli/pkg/files"
	"github.com/metoxid/metoxid-cli/pkg/models"
)

// NewConfigCommand creates the config command and its subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the settings file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			outputFormat, _ := cmd.Flags().GetString("output")
			if err := cli.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			format := cli.OutputFormat(outputFormat)
			if format == cli.FormatText {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", ctx.ConfigPath)
				format = cli.FormatYAML
			}
			return cli.Encode(cmd.OutOrStdout(), format, ctx.Settings)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text, json, yaml)")
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				var err error
				if path, err = files.DefaultSettingsPath(); err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("settings file %s already exists (use --force to overwrite)", path)
			}

			if err := files.WriteSettings(path, models.DefaultSettings()); err != nil {
				return err
			}
			cli.PrintSuccess("Wrote default settings to %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")
	return cmd
}
