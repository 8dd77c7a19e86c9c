package journal

import (
	"database/sql"
	"fmt"

	"github.com/rustyeddy/txengine/account"
)

// GetRun returns a single run by id.
func (j *SQLiteJournal) GetRun(runID string) (Run, error) {
	var r Run

	row := j.db.QueryRow(`
		SELECT run_id, input, started_at, records, applied, rejected
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(&r.ID, &r.Input, &r.StartedAt, &r.Records, &r.Applied, &r.Rejected)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns every exported run, oldest first.
func (j *SQLiteJournal) ListRuns() ([]Run, error) {
	rows, err := j.db.Query(`
		SELECT run_id, input, started_at, records, applied, rejected
		FROM runs
		ORDER BY run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Input, &r.StartedAt, &r.Records, &r.Applied, &r.Rejected); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAccounts returns the snapshots of a run in the order they were
// recorded.
func (j *SQLiteJournal) ListAccounts(runID string) ([]account.Snapshot, error) {
	rows, err := j.db.Query(`
		SELECT client, available, held, total, locked
		FROM accounts
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []account.Snapshot
	for rows.Next() {
		var s account.Snapshot
		if err := rows.Scan(&s.Client, &s.Available, &s.Held, &s.Total, &s.Locked); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
