package balance

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no balance record exists for the (owner, currency) pair.
	ErrNotFound = errors.New("balance not found")

	// ErrInsufficientBalance indicates a negative delta would drive the
	// available amount below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Store persists per-owner, per-currency balances. UpsertAdd calls for the
// same (owner, currency) pair serialize; different pairs do not block each
// other. Only the ledger engine and the funding collaborator may mutate
// balances through this interface.
type Store interface {
	Get(ctx context.Context, ownerID, currency string) (Balance, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Balance, error)

	// UpsertAdd applies delta to the available amount, lazily creating the
	// record when absent. A delta that would make the available amount
	// negative fails with ErrInsufficientBalance and leaves the record
	// untouched.
	UpsertAdd(ctx context.Context, ownerID, currency string, delta decimal.Decimal) (Balance, error)
}
