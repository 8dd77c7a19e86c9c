package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies an operation type in the input log.
type Kind string

const (
	Chargeback Kind = "chargeback"
	Deposit    Kind = "deposit"
	Dispute    Kind = "dispute"
	Resolve    Kind = "resolve"
	Withdrawal Kind = "withdrawal"
)

// ParseKind maps a type string to a Kind, ignoring case and surrounding
// whitespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case Chargeback, Deposit, Dispute, Resolve, Withdrawal:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Operation is one record of the input log. Amount is only meaningful for
// deposits and withdrawals; dispute-type operations reference Tx.
type Operation struct {
	Kind   Kind
	Client uint16
	Tx     uint32
	Amount decimal.NullDecimal
}

func (op Operation) String() string {
	if op.Amount.Valid {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", op.Kind, op.Client, op.Tx, op.Amount.Decimal)
	}
	return fmt.Sprintf("%s client=%d tx=%d", op.Kind, op.Client, op.Tx)
}
