package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/txengine/account"
	"github.com/rustyeddy/txengine/internal/id"
)

// ErrNoRun is returned by RecordAccount when no run is open.
var ErrNoRun = errors.New("journal: no run started")

// Run describes one replay exported to SQLite.
type Run struct {
	ID        string
	Input     string
	StartedAt time.Time
	Records   int
	Applied   int
	Rejected  int
}

// SQLiteJournal exports final snapshots to a SQLite file, one run per
// StartRun call. Nothing is ever read back into an engine.
//
// Each run is written in a single transaction. A run becomes visible on
// Commit or Close; if any write failed the whole run is rolled back.
type SQLiteJournal struct {
	db     *sql.DB
	tx     *sql.Tx
	failed error
	runID  string
	seq    int
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

// StartRun commits any open run, then inserts r in a new transaction and
// directs subsequent RecordAccount calls to it. A ULID is assigned when
// r.ID is empty. The run id is returned.
func (j *SQLiteJournal) StartRun(r Run) (string, error) {
	if err := j.Commit(); err != nil {
		return "", err
	}
	if r.ID == "" {
		r.ID = id.New()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}

	tx, err := j.db.Begin()
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, input, started_at, records, applied, rejected)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Input, r.StartedAt.UTC(), r.Records, r.Applied, r.Rejected,
	)
	if err != nil {
		_ = tx.Rollback()
		return "", err
	}

	j.tx = tx
	j.failed = nil
	j.runID = r.ID
	j.seq = 0
	return r.ID, nil
}

func (j *SQLiteJournal) RunID() string { return j.runID }

func (j *SQLiteJournal) RecordAccount(s account.Snapshot) error {
	if j.tx == nil {
		return ErrNoRun
	}
	if j.failed != nil {
		return j.failed
	}

	_, err := j.tx.Exec(`
		INSERT INTO accounts
		(run_id, seq, client, available, held, total, locked)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.runID, j.seq, s.Client, f(s.Available), f(s.Held), f(s.Total), s.Locked,
	)
	if err != nil {
		j.failed = err
		return err
	}
	j.seq++
	return nil
}

// Commit makes the open run visible. If a write failed the run is rolled
// back and the failure returned. Commit with no open run is a no-op.
func (j *SQLiteJournal) Commit() error {
	if j.tx == nil {
		return nil
	}
	tx, failed := j.tx, j.failed
	j.tx, j.failed = nil, nil

	if failed != nil {
		if err := tx.Rollback(); err != nil {
			return errors.Join(failed, err)
		}
		return fmt.Errorf("run %s rolled back: %w", j.runID, failed)
	}
	return tx.Commit()
}

// Rollback discards the open run.
func (j *SQLiteJournal) Rollback() error {
	if j.tx == nil {
		return nil
	}
	tx := j.tx
	j.tx, j.failed = nil, nil
	return tx.Rollback()
}

// Close commits the open run, or rolls it back if a write failed, and
// closes the database. A failed write has already been reported by
// RecordAccount, so Close only returns errors of its own.
func (j *SQLiteJournal) Close() error {
	var err error
	if j.failed != nil {
		err = j.Rollback()
	} else {
		err = j.Commit()
	}
	return errors.Join(err, j.db.Close())
}
