package transaction

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the transaction id is unknown.
	ErrNotFound = errors.New("transaction not found")

	// ErrInvalidState indicates a status transition was attempted from a
	// state other than the expected one. Terminal statuses never transition.
	ErrInvalidState = errors.New("invalid transaction state")
)

// Page is one slice of the transaction log ordered by recency.
type Page struct {
	Transactions []Transaction
	Total        int
	HasMore      bool
}

// Store persists transaction records and their lifecycle status.
type Store interface {
	Get(ctx context.Context, id int64) (Transaction, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error)

	// ListAll returns transactions ordered newest first.
	ListAll(ctx context.Context, limit, offset int) (Page, error)

	// Create assigns the next id, stamps CreatedAt and defaults the status
	// to pending unless the caller provides a valid one.
	Create(ctx context.Context, txn Transaction) (Transaction, error)

	// SetStatus overwrites the status unconditionally with no balance side
	// effects. It exists for the engine's compensation path; callers own the
	// atomicity story. Restoring a record to pending clears any external
	// reference.
	SetStatus(ctx context.Context, id int64, status Status) (Transaction, error)

	// CompareAndSetStatus transitions from -> to only if the current status
	// equals from; otherwise it fails with ErrInvalidState. At most one
	// concurrent caller for a given id observes the from status. The
	// external reference is recorded only when to is completed.
	CompareAndSetStatus(ctx context.Context, id int64, from, to Status, externalRef string) (Transaction, error)
}
