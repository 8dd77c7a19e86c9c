package replay

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/txengine/engine"
)

// ErrMalformedRecord is returned when a row cannot be parsed into an
// operation. It is fatal to a run.
var ErrMalformedRecord = errors.New("malformed record")

// Amounts outside these bounds are rejected as malformed. Rounding an
// amount with a huge exponent allocates a coefficient of that many digits.
const (
	MaxAmountExponent = 18
	MinAmountExponent = -28
	MaxAmountDigits   = 38
)

// Reader yields operations from a CSV log, one row at a time.
//
// Format:
//
//	type,client,tx,amount
//	deposit,1,1,1.0
//	dispute,1,1,
//
// The header row is optional. Fields may be padded with whitespace, type
// is case-insensitive and the amount column may be empty or omitted for
// dispute, resolve and chargeback rows.
//
// A Reader is not restartable.
type Reader struct {
	csv   *csv.Reader
	first bool
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr, first: true}
}

// Next returns the next operation, or io.EOF when the log is exhausted.
func (r *Reader) Next() (engine.Operation, error) {
	for {
		row, err := r.csv.Read()
		if err == io.EOF {
			return engine.Operation{}, io.EOF
		}
		if err != nil {
			return engine.Operation{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}

		line, _ := r.csv.FieldPos(0)
		if r.first {
			r.first = false
			if isHeader(row) {
				continue
			}
		}

		op, err := parseRow(row)
		if err != nil {
			return engine.Operation{}, fmt.Errorf("line %d: %w", line, err)
		}
		return op, nil
	}
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "type")
}

func parseRow(row []string) (engine.Operation, error) {
	if len(row) < 3 || len(row) > 4 {
		return engine.Operation{}, fmt.Errorf("%w: need type,client,tx[,amount], got %d fields", ErrMalformedRecord, len(row))
	}

	kind, err := engine.ParseKind(row[0])
	if err != nil {
		return engine.Operation{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return engine.Operation{}, fmt.Errorf("%w: bad client %q: %v", ErrMalformedRecord, row[1], err)
	}
	tx, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return engine.Operation{}, fmt.Errorf("%w: bad tx %q: %v", ErrMalformedRecord, row[2], err)
	}

	op := engine.Operation{
		Kind:   kind,
		Client: uint16(client),
		Tx:     uint32(tx),
	}

	if len(row) == 4 {
		if s := strings.TrimSpace(row[3]); s != "" {
			amount, err := decimal.NewFromString(s)
			if err != nil {
				return engine.Operation{}, fmt.Errorf("%w: bad amount %q: %v", ErrMalformedRecord, row[3], err)
			}
			if err := checkAmount(amount); err != nil {
				return engine.Operation{}, fmt.Errorf("%w: bad amount %q: %v", ErrMalformedRecord, row[3], err)
			}
			op.Amount = decimal.NewNullDecimal(amount)
		}
	}

	return op, nil
}

func checkAmount(d decimal.Decimal) error {
	if exp := d.Exponent(); exp > MaxAmountExponent || exp < MinAmountExponent {
		return fmt.Errorf("exponent %d out of range [%d, %d]", exp, MinAmountExponent, MaxAmountExponent)
	}
	if n := d.NumDigits(); n > MaxAmountDigits {
		return fmt.Errorf("%d significant digits, max %d", n, MaxAmountDigits)
	}
	return nil
}
