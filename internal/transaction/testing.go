package transaction

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coinharbor/coinharbor/internal/asset"
)

// FixtureOption customizes a test transaction before it is stored.
type FixtureOption func(*Transaction)

// WithKind sets the transaction kind.
func WithKind(kind Kind) FixtureOption {
	return func(t *Transaction) { t.Kind = kind }
}

// WithStatus sets the initial status.
func WithStatus(status Status) FixtureOption {
	return func(t *Transaction) { t.Status = status }
}

// WithAmount sets the amount from its string form.
func WithAmount(amount string) FixtureOption {
	return func(t *Transaction) { t.Amount = decimal.RequireFromString(amount) }
}

// WithCurrency sets the asset code and its derived network label.
func WithCurrency(code string) FixtureOption {
	return func(t *Transaction) {
		t.Currency = code
		t.Network = asset.Network(code)
	}
}

// WithCounterparties sets the external addresses on the record.
func WithCounterparties(to, from string) FixtureOption {
	return func(t *Transaction) {
		t.CounterpartyTo = to
		t.CounterpartyFrom = from
	}
}

// Fixture stores a deposit of 0.5 BTC for the given owner, pending by
// default, applying any options on top. It exists so tests assemble records
// declaratively instead of generating ad hoc data inline.
func Fixture(t *testing.T, store Store, ownerID string, opts ...FixtureOption) Transaction {
	t.Helper()

	txn := Transaction{
		OwnerID:  ownerID,
		Kind:     KindDeposit,
		Currency: "BTC",
		Amount:   decimal.RequireFromString("0.5"),
		Status:   StatusPending,
		Network:  asset.Network("BTC"),
	}
	for _, opt := range opts {
		opt(&txn)
	}

	created, err := store.Create(context.Background(), txn)
	if err != nil {
		t.Fatalf("create fixture transaction: %v", err)
	}
	return created
}
