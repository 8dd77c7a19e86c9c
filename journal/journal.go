package journal

import (
	"errors"

	"github.com/rustyeddy/txengine/account"
)

// Journal receives the final account snapshots of a run.
type Journal interface {
	RecordAccount(account.Snapshot) error
	Close() error
}

// WriteReport records every snapshot in order and closes j. j is closed
// even when a record fails.
func WriteReport(j Journal, snaps []account.Snapshot) error {
	for _, s := range snaps {
		if err := j.RecordAccount(s); err != nil {
			return errors.Join(err, j.Close())
		}
	}
	return j.Close()
}
