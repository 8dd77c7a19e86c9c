package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDuplicateTransaction is returned by Record when the transaction id
// has already been recorded.
var ErrDuplicateTransaction = errors.New("duplicate transaction")

// Kind is the operation that created a ledger entry.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// Transaction is an accepted deposit or withdrawal. Amount is signed:
// positive for deposits, negative for withdrawals.
type Transaction struct {
	ID       uint32
	Client   uint16
	Kind     Kind
	Amount   decimal.Decimal
	Disputed bool
}

// Ledger is an append-only record of accepted transactions keyed by id.
// Only the Disputed flag of an entry may change after it is recorded.
//
// A Ledger is owned by a single engine and is not safe for concurrent use.
type Ledger struct {
	entries map[uint32]*Transaction
}

func New() *Ledger {
	return &Ledger{entries: make(map[uint32]*Transaction)}
}

// Record appends tx. Disputed is always cleared on insert.
func (l *Ledger) Record(tx Transaction) error {
	if _, exists := l.entries[tx.ID]; exists {
		return ErrDuplicateTransaction
	}
	tx.Disputed = false
	l.entries[tx.ID] = &tx
	return nil
}

// Find returns the entry for id so the caller can flip Disputed.
func (l *Ledger) Find(id uint32) (*Transaction, bool) {
	tx, ok := l.entries[id]
	return tx, ok
}

func (l *Ledger) Exists(id uint32) bool {
	_, ok := l.entries[id]
	return ok
}

func (l *Ledger) Len() int { return len(l.entries) }
