package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/txengine/account"
	"github.com/rustyeddy/txengine/config"
	"github.com/rustyeddy/txengine/engine"
	"github.com/rustyeddy/txengine/internal/logging"
	"github.com/rustyeddy/txengine/journal"
	"github.com/rustyeddy/txengine/ledger"
	"github.com/rustyeddy/txengine/replay"
)

func newRunCmd(rc *RootConfig) *cobra.Command {
	var (
		report              string
		allowClientMismatch bool
	)

	cmd := &cobra.Command{
		Use:   "run <transactions.csv>",
		Short: "Replay a transaction log and report final balances",
		Long: `Replay a CSV transaction log (type,client,tx,amount) and write one
row per client (client,available,held,total,locked) to stdout, or export
the balances to a SQLite journal.

A malformed row or an unknown operation type aborts the run and nothing
is reported. Rejected operations (insufficient funds, unknown or
undisputed transactions, locked accounts) are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(rc)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("report") {
				cfg.Report.Type = report
			}
			if cmd.Flags().Changed("allow-client-mismatch") {
				cfg.Engine.AllowClientMismatch = allowClientMismatch
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runReplay(cmd, cfg, args[0], logger)
		},
	}

	cmd.Flags().StringVar(&report, "report", config.ReportCSV, "Report sink: csv|sqlite")
	cmd.Flags().BoolVar(&allowClientMismatch, "allow-client-mismatch", false, "Allow disputes against another client's transaction")

	return cmd
}

// resolveConfig loads the optional config file and applies persistent
// flag overrides. The result is not validated; callers validate once all
// of their own overrides are applied.
func resolveConfig(rc *RootConfig) (*config.Config, error) {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		var err error
		cfg, err = config.Load(rc.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if rc.LogLevel != "" {
		cfg.LogLevel = rc.LogLevel
	}
	if rc.DBPath != "" {
		cfg.Report.DBPath = rc.DBPath
	}
	return cfg, nil
}

func runReplay(cmd *cobra.Command, cfg *config.Config, input string, logger *zap.Logger) error {
	ctx := cmd.Context()

	eng := engine.New(account.NewStore(), ledger.New(), engine.Options{
		AllowClientMismatch: cfg.Engine.AllowClientMismatch,
	})

	started := time.Now()
	st, err := replay.File(ctx, input, eng, logger)
	if err != nil {
		logger.Error("replay failed", zap.String("input", input), zap.Error(err))
		return fmt.Errorf("replay error: %w", err)
	}

	logger.Info("replay complete",
		zap.String("input", input),
		zap.Int("records", st.Records),
		zap.Int("applied", st.Applied),
		zap.Int("rejected", st.Rejected),
		zap.Int("accounts", eng.Accounts().Len()),
		zap.Duration("elapsed", time.Since(started)),
	)

	switch cfg.Report.Type {
	case config.ReportSQLite:
		return reportSQLite(cmd.ErrOrStderr(), cfg.Report.DBPath, journal.Run{
			Input:     input,
			StartedAt: started,
			Records:   st.Records,
			Applied:   st.Applied,
			Rejected:  st.Rejected,
		}, eng.Accounts().Snapshots())
	default:
		j, err := journal.NewCSV(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
		return journal.WriteReport(j, eng.Accounts().Snapshots())
	}
}

func reportSQLite(w io.Writer, path string, run journal.Run, snaps []account.Snapshot) error {
	j, err := journal.NewSQLite(path)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}

	runID, err := j.StartRun(run)
	if err != nil {
		_ = j.Close()
		return fmt.Errorf("start run: %w", err)
	}

	if err := journal.WriteReport(j, snaps); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Fprintf(w, "Results saved to: %s (run %s)\n", path, runID)
	return nil
}
