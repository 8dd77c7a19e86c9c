package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/txengine/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files for replay runs.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  txengine config init -o txengine.yaml
  txengine config validate txengine.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  txengine run --config %s transactions.csv\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "txengine.yaml", "output config file path")

	validateCmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", args[0])
			fmt.Fprintf(out, "  Log level: %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "  Report: %s\n", cfg.Report.Type)
			fmt.Fprintf(out, "  Allow client mismatch: %t\n", cfg.Engine.AllowClientMismatch)
			return nil
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
