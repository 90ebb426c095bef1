package funding

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/coinharbor/coinharbor/internal/asset"
	"github.com/coinharbor/coinharbor/internal/balance"
	"github.com/coinharbor/coinharbor/internal/transaction"
)

// Service originates transactions on behalf of owners. It creates deposits
// and withdrawals in pending state for the back office to settle, and records
// exchanges that the trading desk has already settled. Withdrawals debit the
// owner's available balance at request time; approval later never debits
// again.
type Service struct {
	transactions transaction.Store
	balances     balance.Store
}

// NewService builds a funding service over the two stores.
func NewService(transactions transaction.Store, balances balance.Store) *Service {
	return &Service{transactions: transactions, balances: balances}
}

// DepositInput captures an announced incoming transfer.
type DepositInput struct {
	OwnerID     string
	Currency    string
	Amount      decimal.Decimal
	FromAddress string
}

// WithdrawalInput captures a request to send funds to an external address.
type WithdrawalInput struct {
	OwnerID   string
	Currency  string
	Amount    decimal.Decimal
	ToAddress string
}

// ExchangeInput captures a settled conversion between two currencies.
type ExchangeInput struct {
	OwnerID      string
	FromCurrency string
	ToCurrency   string
	Amount       decimal.Decimal
	Rate         decimal.Decimal
}

// RequestDeposit records a pending deposit. No balance changes until the
// back office approves the transaction.
func (s *Service) RequestDeposit(ctx context.Context, input DepositInput) (transaction.Transaction, error) {
	amount, err := validateAmount(input.Currency, input.Amount)
	if err != nil {
		return transaction.Transaction{}, err
	}

	return s.transactions.Create(ctx, transaction.Transaction{
		OwnerID:          input.OwnerID,
		Kind:             transaction.KindDeposit,
		Currency:         input.Currency,
		Amount:           amount,
		Status:           transaction.StatusPending,
		CounterpartyFrom: input.FromAddress,
		Network:          asset.Network(input.Currency),
	})
}

// RequestWithdrawal debits the owner's available balance immediately and
// records a pending withdrawal. Insufficient funds reject the request before
// anything is written. If recording the transaction fails after the debit,
// the debit is credited back.
func (s *Service) RequestWithdrawal(ctx context.Context, input WithdrawalInput) (transaction.Transaction, error) {
	amount, err := validateAmount(input.Currency, input.Amount)
	if err != nil {
		return transaction.Transaction{}, err
	}

	if _, err := s.balances.UpsertAdd(ctx, input.OwnerID, input.Currency, amount.Neg()); err != nil {
		return transaction.Transaction{}, err
	}

	txn, err := s.transactions.Create(ctx, transaction.Transaction{
		OwnerID:        input.OwnerID,
		Kind:           transaction.KindWithdrawal,
		Currency:       input.Currency,
		Amount:         amount,
		Status:         transaction.StatusPending,
		CounterpartyTo: input.ToAddress,
		Network:        asset.Network(input.Currency),
	})
	if err != nil {
		if _, rbErr := s.balances.UpsertAdd(ctx, input.OwnerID, input.Currency, amount); rbErr != nil {
			return transaction.Transaction{}, errors.Join(err, rbErr)
		}
		return transaction.Transaction{}, err
	}
	return txn, nil
}

// RecordExchange settles both balance legs and records the conversion as an
// already-completed transaction carrying the sold currency and amount. The
// ledger engine never re-applies exchange balance effects.
func (s *Service) RecordExchange(ctx context.Context, input ExchangeInput) (transaction.Transaction, error) {
	sold, err := validateAmount(input.FromCurrency, input.Amount)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if input.ToCurrency == "" || input.ToCurrency == input.FromCurrency {
		return transaction.Transaction{}, fmt.Errorf("invalid currency pair %s/%s", input.FromCurrency, input.ToCurrency)
	}
	if !input.Rate.IsPositive() {
		return transaction.Transaction{}, fmt.Errorf("rate must be positive")
	}
	bought := asset.Normalize(input.ToCurrency, sold.Mul(input.Rate))

	if _, err := s.balances.UpsertAdd(ctx, input.OwnerID, input.FromCurrency, sold.Neg()); err != nil {
		return transaction.Transaction{}, err
	}
	if _, err := s.balances.UpsertAdd(ctx, input.OwnerID, input.ToCurrency, bought); err != nil {
		if _, rbErr := s.balances.UpsertAdd(ctx, input.OwnerID, input.FromCurrency, sold); rbErr != nil {
			return transaction.Transaction{}, errors.Join(err, rbErr)
		}
		return transaction.Transaction{}, err
	}

	txn, err := s.transactions.Create(ctx, transaction.Transaction{
		OwnerID:  input.OwnerID,
		Kind:     transaction.KindExchange,
		Currency: input.FromCurrency,
		Amount:   sold,
		Status:   transaction.StatusCompleted,
	})
	if err != nil {
		rb := err
		if _, rbErr := s.balances.UpsertAdd(ctx, input.OwnerID, input.ToCurrency, bought.Neg()); rbErr != nil {
			rb = errors.Join(rb, rbErr)
		}
		if _, rbErr := s.balances.UpsertAdd(ctx, input.OwnerID, input.FromCurrency, sold); rbErr != nil {
			rb = errors.Join(rb, rbErr)
		}
		return transaction.Transaction{}, rb
	}
	return txn, nil
}

// Balances lists every balance record the owner holds.
func (s *Service) Balances(ctx context.Context, ownerID string) ([]balance.Balance, error) {
	return s.balances.ListByOwner(ctx, ownerID)
}

// Transactions lists the owner's transactions, newest first.
func (s *Service) Transactions(ctx context.Context, ownerID string) ([]transaction.Transaction, error) {
	txns, err := s.transactions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].ID > txns[j].ID
		}
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

func validateAmount(currency string, amount decimal.Decimal) (decimal.Decimal, error) {
	if currency == "" {
		return decimal.Zero, fmt.Errorf("currency is required")
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive")
	}
	return asset.Normalize(currency, amount), nil
}
