package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

// RootConfig holds the persistent flags shared by every subcommand.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "txengine",
		Short: "Replay client transaction logs into account balances",
		Long: `txengine replays a CSV log of deposits, withdrawals, disputes,
resolves and chargebacks against per-client accounts and prints the
final balances.

Examples:
  txengine run transactions.csv > accounts.csv
  txengine run --report sqlite --db runs.sqlite transactions.csv
  txengine journal runs --db runs.sqlite`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&rc.ConfigPath, "config", "f", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")

	cmd.AddCommand(
		newRunCmd(rc),
		newConfigCmd(),
		newJournalCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "txengine version %s\n", version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
