package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/txengine/journal"
)

func newJournalCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query exported runs",
		Long: `Query runs exported with --report sqlite.

Subcommands:
  runs      - List exported runs
  accounts  - Print the final balances of a run as CSV

Examples:
  txengine journal runs --db runs.sqlite
  txengine journal accounts 01J0Z8M7Q3X5V2R4T6Y8A0C2E4 --db runs.sqlite`,
	}

	open := func() (*journal.SQLiteJournal, error) {
		cfg, err := resolveConfig(rc)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		if _, err := os.Stat(cfg.Report.DBPath); err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		j, err := journal.NewSQLite(cfg.Report.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List exported runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns()
			if err != nil {
				return fmt.Errorf("query runs: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tINPUT\tRECORDS\tAPPLIED\tREJECTED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
					r.ID, r.StartedAt.Format(time.RFC3339), r.Input, r.Records, r.Applied, r.Rejected)
			}
			return tw.Flush()
		},
	}

	accountsCmd := &cobra.Command{
		Use:   "accounts <run-id>",
		Short: "Print the final balances of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			if _, err := j.GetRun(args[0]); err != nil {
				return err
			}
			snaps, err := j.ListAccounts(args[0])
			if err != nil {
				return fmt.Errorf("query accounts: %w", err)
			}

			out, err := journal.NewCSV(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return journal.WriteReport(out, snaps)
		},
	}

	cmd.AddCommand(runsCmd, accountsCmd)
	return cmd
}
