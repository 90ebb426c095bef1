package admin

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coinharbor/coinharbor/internal/balance"
	"github.com/coinharbor/coinharbor/internal/ledger"
	"github.com/coinharbor/coinharbor/internal/stats"
	"github.com/coinharbor/coinharbor/internal/transaction"
)

func newAdminService(t *testing.T) (*Service, transaction.Store) {
	t.Helper()
	transactions := transaction.NewMemoryStore()
	balances := balance.NewMemoryStore()
	cache := stats.NewMemoryCache()
	engine := ledger.NewEngine(transactions, balances, cache, nil, nil)
	return NewService(engine, transactions, cache), transactions
}

func TestStatsCountsPendingAndCompletedVolume(t *testing.T) {
	svc, transactions := newAdminService(t)
	ctx := context.Background()

	first := transaction.Fixture(t, transactions, "u1", transaction.WithAmount("0.5"))
	transaction.Fixture(t, transactions, "u2", transaction.WithAmount("1"))
	transaction.Fixture(t, transactions, "u3",
		transaction.WithCurrency("USDT"), transaction.WithAmount("100.00"),
		transaction.WithStatus(transaction.StatusCompleted))

	if _, err := svc.Approve(ctx, first.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	summary, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if summary.PendingCount != 1 {
		t.Fatalf("expected 1 pending, got %d", summary.PendingCount)
	}
	if !summary.CompletedVolume["BTC"].Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected BTC volume 0.5, got %s", summary.CompletedVolume["BTC"])
	}
	if !summary.CompletedVolume["USDT"].Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected USDT volume 100, got %s", summary.CompletedVolume["USDT"])
	}
}

func TestStatsRefreshAfterEngineInvalidation(t *testing.T) {
	svc, transactions := newAdminService(t)
	ctx := context.Background()

	txn := transaction.Fixture(t, transactions, "u1", transaction.WithAmount("0.5"))

	before, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if before.PendingCount != 1 {
		t.Fatalf("expected 1 pending before approval, got %d", before.PendingCount)
	}

	// The approval invalidates the cached summary, so the next read reflects it.
	if _, err := svc.Approve(ctx, txn.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	after, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats after approve: %v", err)
	}
	if after.PendingCount != 0 {
		t.Fatalf("expected 0 pending after approval, got %d", after.PendingCount)
	}
	if !after.CompletedVolume["BTC"].Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected BTC volume 0.5, got %s", after.CompletedVolume["BTC"])
	}
}

func TestListPagesNewestFirst(t *testing.T) {
	svc, transactions := newAdminService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		transaction.Fixture(t, transactions, "u1")
	}

	page, err := svc.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || len(page.Transactions) != 2 || !page.HasMore {
		t.Fatalf("unexpected page: total=%d len=%d has_more=%v", page.Total, len(page.Transactions), page.HasMore)
	}
}
