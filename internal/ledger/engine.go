package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coinharbor/coinharbor/internal/balance"
	"github.com/coinharbor/coinharbor/internal/notification"
	"github.com/coinharbor/coinharbor/internal/transaction"
)

// ErrStorage indicates the underlying store failed while applying an
// otherwise valid transition. The joined error chain carries the cause.
var ErrStorage = errors.New("ledger storage failure")

// Invalidator is notified after every successful transition so derived data
// (the admin statistics cache) can be dropped explicitly instead of aging
// out on a timer.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Engine owns transaction status transitions and their balance effects. It is
// the only component allowed to move a pending transaction to a terminal
// state, and the only code path that credits a balance on deposit completion.
type Engine struct {
	transactions transaction.Store
	balances     balance.Store
	stats        Invalidator
	notifier     notification.Notifier
	logger       *slog.Logger
}

// NewEngine constructs the ledger engine. The invalidator and notifier are
// optional; a nil logger falls back to slog's default.
func NewEngine(transactions transaction.Store, balances balance.Store, stats Invalidator, notifier notification.Notifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		transactions: transactions,
		balances:     balances,
		stats:        stats,
		notifier:     notifier,
		logger:       logger,
	}
}

// Approve moves a pending transaction to completed and, for deposits,
// credits the owner's balance. The status check and transition is a single
// compare-and-set keyed by id, so exactly one concurrent caller wins; the
// rest fail with transaction.ErrInvalidState. If the balance credit fails the
// status is restored to pending before the error is surfaced, leaving the
// record retryable. externalRef optionally records a settlement reference on
// the completed record.
func (e *Engine) Approve(ctx context.Context, id int64, externalRef string) (transaction.Transaction, error) {
	txn, err := e.transactions.CompareAndSetStatus(ctx, id, transaction.StatusPending, transaction.StatusCompleted, externalRef)
	if err != nil {
		return transaction.Transaction{}, transitionErr(err)
	}

	if txn.Kind == transaction.KindDeposit {
		if _, err := e.balances.UpsertAdd(ctx, txn.OwnerID, txn.Currency, txn.Amount); err != nil {
			if _, rbErr := e.transactions.SetStatus(ctx, id, transaction.StatusPending); rbErr != nil {
				e.logger.Error("compensating status reset failed",
					"transaction_id", id, "error", rbErr)
				return transaction.Transaction{}, errors.Join(ErrStorage, err, rbErr)
			}
			return transaction.Transaction{}, errors.Join(ErrStorage, err)
		}
	}
	// Withdrawals were already debited when the request was created, and
	// exchange legs settle at creation; approving them only finalizes the
	// record. Debiting again here would double-charge the owner.

	e.afterTransition(ctx, txn)
	return txn, nil
}

// Reject moves a pending transaction to failed. Balances are never touched:
// even a rejected withdrawal keeps its request-time debit. The same
// compare-and-set rule applies, so a second reject (or a reject racing an
// approve) fails with transaction.ErrInvalidState.
func (e *Engine) Reject(ctx context.Context, id int64) (transaction.Transaction, error) {
	txn, err := e.transactions.CompareAndSetStatus(ctx, id, transaction.StatusPending, transaction.StatusFailed, "")
	if err != nil {
		return transaction.Transaction{}, transitionErr(err)
	}

	e.afterTransition(ctx, txn)
	return txn, nil
}

func (e *Engine) afterTransition(ctx context.Context, txn transaction.Transaction) {
	if e.stats != nil {
		if err := e.stats.Invalidate(ctx); err != nil {
			e.logger.Warn("stats cache invalidation failed", "transaction_id", txn.ID, "error", err)
		}
	}
	if e.notifier != nil {
		kind := notification.KindTransactionCompleted
		if txn.Status == transaction.StatusFailed {
			kind = notification.KindTransactionFailed
		}
		msg := notification.Message{
			Kind:        kind,
			Destination: txn.OwnerID,
			Body:        fmt.Sprintf("Your %s of %s %s is %s", txn.Kind, txn.Amount.String(), txn.Currency, txn.Status),
		}
		if err := e.notifier.Send(ctx, msg); err != nil {
			e.logger.Warn("notification send failed", "transaction_id", txn.ID, "error", err)
		}
	}
}

// transitionErr passes the store's taxonomy through untouched and labels
// anything else as a storage failure.
func transitionErr(err error) error {
	if errors.Is(err, transaction.ErrNotFound) || errors.Is(err, transaction.ErrInvalidState) {
		return err
	}
	return errors.Join(ErrStorage, err)
}
