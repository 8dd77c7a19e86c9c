package journal

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/txengine/account"
	"github.com/rustyeddy/txengine/engine"
)

var csvHeader = []string{"client", "available", "held", "total", "locked"}

// CSVJournal writes account snapshots as CSV rows. Close flushes but does
// not close the underlying writer.
type CSVJournal struct {
	w *csv.Writer
}

// NewCSV writes the header row to w and returns the journal.
func NewCSV(w io.Writer) (*CSVJournal, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	return &CSVJournal{w: cw}, nil
}

func (j *CSVJournal) RecordAccount(s account.Snapshot) error {
	return j.w.Write([]string{
		strconv.FormatUint(uint64(s.Client), 10),
		f(s.Available),
		f(s.Held),
		f(s.Total),
		strconv.FormatBool(s.Locked),
	})
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	return j.w.Error()
}

func f(d decimal.Decimal) string {
	return d.StringFixed(engine.Precision)
}
