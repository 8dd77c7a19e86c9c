package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/txengine/account"
	"github.com/rustyeddy/txengine/ledger"
)

// Precision is the number of decimal places amounts are rounded to on
// entry. The smallest representable unit is therefore 0.0001.
const Precision = 4

// Epsilon is the tolerance used when deciding whether an account holds
// exactly enough funds: half of the smallest unit.
var Epsilon = decimal.New(5, -(Precision + 1))

// Options tunes settlement policy.
type Options struct {
	// AllowClientMismatch lets a dispute, resolve or chargeback reference a
	// transaction issued by another client. The named client's account is
	// the one adjusted.
	AllowClientMismatch bool
}

// Engine applies operations to an account store and a transaction ledger.
// It is the sole writer of both for the duration of a run and must be
// driven from a single goroutine, in input order.
type Engine struct {
	accounts *account.Store
	ledger   *ledger.Ledger
	opts     Options
}

func New(accounts *account.Store, l *ledger.Ledger, opts Options) *Engine {
	return &Engine{accounts: accounts, ledger: l, opts: opts}
}

// NewDefault returns an engine with empty containers and default options.
func NewDefault() *Engine {
	return New(account.NewStore(), ledger.New(), Options{})
}

func (e *Engine) Accounts() *account.Store { return e.accounts }
func (e *Engine) Ledger() *ledger.Ledger   { return e.ledger }

// Account returns a snapshot of client's account.
func (e *Engine) Account(client uint16) (account.Snapshot, bool) {
	a, ok := e.accounts.Get(client)
	if !ok {
		return account.Snapshot{}, false
	}
	return a.Snapshot(), true
}

// Apply processes a single operation. The client's account is created on
// first reference even if the operation is then rejected.
//
// A nil return means state changed. A rejection (see IsRejection) means
// the operation was a no-op. ErrUnknownOperation means the operation could
// not be interpreted at all.
func (e *Engine) Apply(op Operation) error {
	if !op.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, string(op.Kind))
	}

	acct := e.accounts.GetOrCreate(op.Client)
	if acct.Locked {
		return fmt.Errorf("%s client %d: %w", op.Kind, op.Client, ErrAccountLocked)
	}

	switch op.Kind {
	case Deposit:
		return e.deposit(acct, op)
	case Withdrawal:
		return e.withdraw(acct, op)
	case Dispute:
		return e.dispute(acct, op)
	case Resolve:
		return e.resolve(acct, op)
	case Chargeback:
		return e.chargeback(acct, op)
	}
	return nil
}

func (e *Engine) deposit(acct *account.Account, op Operation) error {
	amount, err := amountOf(op)
	if err != nil {
		return err
	}
	if e.ledger.Exists(op.Tx) {
		return fmt.Errorf("deposit tx %d: %w", op.Tx, ErrDuplicateTransaction)
	}

	acct.Available = acct.Available.Add(amount)
	acct.Total = acct.Total.Add(amount)

	return e.record(op, ledger.KindDeposit, amount)
}

func (e *Engine) withdraw(acct *account.Account, op Operation) error {
	amount, err := amountOf(op)
	if err != nil {
		return err
	}
	if e.ledger.Exists(op.Tx) {
		return fmt.Errorf("withdrawal tx %d: %w", op.Tx, ErrDuplicateTransaction)
	}
	if !covers(acct.Available, amount) {
		return fmt.Errorf("withdrawal tx %d: available %s < %s: %w",
			op.Tx, acct.Available.StringFixed(Precision), amount.StringFixed(Precision), ErrInsufficientFunds)
	}

	acct.Available = acct.Available.Sub(amount)
	acct.Total = acct.Total.Sub(amount)

	return e.record(op, ledger.KindWithdrawal, amount.Neg())
}

func (e *Engine) dispute(acct *account.Account, op Operation) error {
	tx, err := e.referenced(op)
	if err != nil {
		return err
	}
	if tx.Disputed {
		return fmt.Errorf("dispute tx %d: %w", op.Tx, ErrAlreadyDisputed)
	}

	acct.Available = acct.Available.Sub(tx.Amount)
	acct.Held = acct.Held.Add(tx.Amount)
	tx.Disputed = true
	return nil
}

func (e *Engine) resolve(acct *account.Account, op Operation) error {
	tx, err := e.disputed(op)
	if err != nil {
		return err
	}

	acct.Held = acct.Held.Sub(tx.Amount)
	acct.Available = acct.Available.Add(tx.Amount)
	tx.Disputed = false
	return nil
}

func (e *Engine) chargeback(acct *account.Account, op Operation) error {
	tx, err := e.disputed(op)
	if err != nil {
		return err
	}

	acct.Held = acct.Held.Sub(tx.Amount)
	acct.Total = acct.Total.Sub(tx.Amount)
	acct.Locked = true
	tx.Disputed = false
	return nil
}

// referenced looks up the transaction a dispute-type operation points at.
func (e *Engine) referenced(op Operation) (*ledger.Transaction, error) {
	tx, ok := e.ledger.Find(op.Tx)
	if !ok {
		return nil, fmt.Errorf("%s tx %d: %w", op.Kind, op.Tx, ErrTransactionNotFound)
	}
	if !e.opts.AllowClientMismatch && tx.Client != op.Client {
		return nil, fmt.Errorf("%s tx %d: client %d, issued by %d: %w",
			op.Kind, op.Tx, op.Client, tx.Client, ErrClientMismatch)
	}
	return tx, nil
}

func (e *Engine) disputed(op Operation) (*ledger.Transaction, error) {
	tx, err := e.referenced(op)
	if err != nil {
		return nil, err
	}
	if !tx.Disputed {
		return nil, fmt.Errorf("%s tx %d: %w", op.Kind, op.Tx, ErrNotDisputed)
	}
	return tx, nil
}

func (e *Engine) record(op Operation, kind ledger.Kind, amount decimal.Decimal) error {
	return e.ledger.Record(ledger.Transaction{
		ID:     op.Tx,
		Client: op.Client,
		Kind:   kind,
		Amount: amount,
	})
}

func amountOf(op Operation) (decimal.Decimal, error) {
	if !op.Amount.Valid {
		return decimal.Zero, fmt.Errorf("%s tx %d: missing amount: %w", op.Kind, op.Tx, ErrInvalidAmount)
	}
	if op.Amount.Decimal.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s tx %d: negative amount %s: %w", op.Kind, op.Tx, op.Amount.Decimal, ErrInvalidAmount)
	}
	return op.Amount.Decimal.Round(Precision), nil
}

// covers reports whether available >= amount within Epsilon.
func covers(available, amount decimal.Decimal) bool {
	return available.Sub(amount).GreaterThan(Epsilon.Neg())
}
