package admin

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinharbor/coinharbor/internal/ledger"
	"github.com/coinharbor/coinharbor/internal/stats"
	"github.com/coinharbor/coinharbor/internal/transaction"
)

// statsScanPageSize bounds how many records a single stats scan query pulls.
const statsScanPageSize = 500

// Service is the thin back-office boundary. Approvals and rejections delegate
// to the ledger engine without adding recovery logic; administrators retry
// manually on failure. The statistics summary is derived by scanning the
// transaction store and memoized in the injected cache, which the engine
// invalidates on every successful transition.
type Service struct {
	engine       *ledger.Engine
	transactions transaction.Store
	cache        stats.Cache
}

// NewService builds the admin service.
func NewService(engine *ledger.Engine, transactions transaction.Store, cache stats.Cache) *Service {
	return &Service{engine: engine, transactions: transactions, cache: cache}
}

// Approve settles a pending transaction, optionally recording an external
// settlement reference. All engine errors pass through unchanged.
func (s *Service) Approve(ctx context.Context, id int64, externalRef string) (transaction.Transaction, error) {
	return s.engine.Approve(ctx, id, externalRef)
}

// Reject fails a pending transaction. All engine errors pass through unchanged.
func (s *Service) Reject(ctx context.Context, id int64) (transaction.Transaction, error) {
	return s.engine.Reject(ctx, id)
}

// List returns one page of the transaction log, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) (transaction.Page, error) {
	return s.transactions.ListAll(ctx, limit, offset)
}

// Stats returns the back-office summary, recomputing it on a cache miss.
func (s *Service) Stats(ctx context.Context) (stats.Summary, error) {
	if s.cache != nil {
		if summary, ok, err := s.cache.Get(ctx); err == nil && ok {
			return summary, nil
		}
	}

	summary, err := s.computeStats(ctx)
	if err != nil {
		return stats.Summary{}, err
	}

	if s.cache != nil {
		// Best effort: a failed write only means the next call recomputes.
		_ = s.cache.Set(ctx, summary)
	}
	return summary, nil
}

func (s *Service) computeStats(ctx context.Context) (stats.Summary, error) {
	summary := stats.Summary{
		CompletedVolume: make(map[string]decimal.Decimal),
		GeneratedAt:     time.Now().UTC(),
	}

	for offset := 0; ; offset += statsScanPageSize {
		page, err := s.transactions.ListAll(ctx, statsScanPageSize, offset)
		if err != nil {
			return stats.Summary{}, err
		}
		for _, txn := range page.Transactions {
			switch txn.Status {
			case transaction.StatusPending:
				summary.PendingCount++
			case transaction.StatusCompleted:
				summary.CompletedVolume[txn.Currency] = summary.CompletedVolume[txn.Currency].Add(txn.Amount)
			}
		}
		if !page.HasMore {
			return summary, nil
		}
	}
}
