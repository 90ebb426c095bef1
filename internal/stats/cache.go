package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Summary aggregates the back-office view of the transaction log: how many
// transactions still await review and the settled volume per currency.
type Summary struct {
	PendingCount    int                        `json:"pending_count"`
	CompletedVolume map[string]decimal.Decimal `json:"completed_volume"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

// Cache holds a computed Summary between requests. The ledger engine calls
// Invalidate after every successful transition, so a hit is always current;
// any TTL on the backend is only a safety net, never the freshness mechanism.
type Cache interface {
	Get(ctx context.Context) (Summary, bool, error)
	Set(ctx context.Context, summary Summary) error
	Invalidate(ctx context.Context) error
}
