package engine

import (
	"errors"

	"github.com/rustyeddy/txengine/ledger"
)

var (
	// ErrAccountNotFound is returned when a client has no account. Accounts
	// are created lazily, so Apply never returns it.
	ErrAccountNotFound = errors.New("account not found")

	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned for a deposit or withdrawal with a
	// missing or negative amount.
	ErrInvalidAmount = errors.New("invalid amount")

	ErrDuplicateTransaction = ledger.ErrDuplicateTransaction

	// ErrAccountLocked is returned for any operation against an account
	// that has been charged back. The operation is a no-op.
	ErrAccountLocked = errors.New("account locked")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyDisputed     = errors.New("transaction already disputed")
	ErrNotDisputed         = errors.New("transaction not disputed")

	// ErrClientMismatch is returned when a dispute-type operation names a
	// client other than the one that issued the referenced transaction.
	ErrClientMismatch = errors.New("transaction belongs to another client")

	// ErrUnknownOperation is returned for an unrecognised operation type.
	// Unlike the errors above it is not a rejection: the run must stop.
	ErrUnknownOperation = errors.New("unknown operation type")
)

var rejections = []error{
	ErrAccountNotFound,
	ErrInsufficientFunds,
	ErrInvalidAmount,
	ErrDuplicateTransaction,
	ErrAccountLocked,
	ErrTransactionNotFound,
	ErrAlreadyDisputed,
	ErrNotDisputed,
	ErrClientMismatch,
}

// IsRejection reports whether err is a settlement failure that leaves state
// unchanged and should not stop the run.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
