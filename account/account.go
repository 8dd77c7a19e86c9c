package account

import "github.com/shopspring/decimal"

// Account is the running balance of one client.
// Total is kept equal to Available + Held by every mutation in the engine.
type Account struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Snapshot is a point-in-time copy of an Account for reporting.
type Snapshot struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

func (a *Account) Snapshot() Snapshot {
	return Snapshot{
		Client:    a.Client,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total,
		Locked:    a.Locked,
	}
}

// Balanced reports whether Total equals Available + Held.
func (a *Account) Balanced() bool {
	return a.Total.Equal(a.Available.Add(a.Held))
}

// Store maps client ids to accounts, creating them on first reference.
// Iteration order is the order in which clients were first seen.
//
// A Store is owned by a single engine and is not safe for concurrent use.
type Store struct {
	accounts map[uint16]*Account
	order    []uint16
}

func NewStore() *Store {
	return &Store{accounts: make(map[uint16]*Account)}
}

// GetOrCreate returns the account for client, creating a zero-balance
// unlocked account if none exists. The same pointer is returned for the
// lifetime of the store.
func (s *Store) GetOrCreate(client uint16) *Account {
	if a, ok := s.accounts[client]; ok {
		return a
	}
	a := &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
	}
	s.accounts[client] = a
	s.order = append(s.order, client)
	return a
}

func (s *Store) Get(client uint16) (*Account, bool) {
	a, ok := s.accounts[client]
	return a, ok
}

func (s *Store) Exists(client uint16) bool {
	_, ok := s.accounts[client]
	return ok
}

func (s *Store) Len() int { return len(s.order) }

// Snapshots returns copies of every account in first-seen order.
func (s *Store) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(s.order))
	for _, c := range s.order {
		out = append(out, s.accounts[c].Snapshot())
	}
	return out
}
