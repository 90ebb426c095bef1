package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the movement a transaction represents. The set is closed;
// each kind implies which optional fields are meaningful.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindExchange   Kind = "exchange"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindExchange:
		return true
	}
	return false
}

// Status is the lifecycle state of a transaction. Pending is the only state
// that admits a transition; completed and failed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Transaction records a deposit, withdrawal or exchange moving through the
// ledger. Identifiers are assigned monotonically by the store.
type Transaction struct {
	ID       int64
	OwnerID  string
	Kind     Kind
	Currency string
	Amount   decimal.Decimal
	Status   Status

	// ExternalReference holds an opaque settlement reference (for example a
	// chain transaction hash). Populated only once an on-chain transfer
	// completes.
	ExternalReference string

	// CounterpartyTo / CounterpartyFrom describe the external party for
	// withdrawals and deposits respectively. Unused for exchanges.
	CounterpartyTo   string
	CounterpartyFrom string

	// Network is a display label for the settlement network. It never
	// affects ledger arithmetic.
	Network string

	CreatedAt time.Time
}
