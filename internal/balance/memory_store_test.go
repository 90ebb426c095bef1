package balance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMemoryStoreUpsertAddCreatesLazily(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "u1", "BTC"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v", err)
	}

	rec, err := store.UpsertAdd(ctx, "u1", "BTC", decimal.RequireFromString("0.5"))
	if err != nil {
		t.Fatalf("upsert add: %v", err)
	}
	if !rec.Available.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected available 0.5, got %s", rec.Available)
	}

	rec, err = store.UpsertAdd(ctx, "u1", "BTC", decimal.RequireFromString("0.25"))
	if err != nil {
		t.Fatalf("second upsert add: %v", err)
	}
	if !rec.Available.Equal(decimal.RequireFromString("0.75")) {
		t.Fatalf("expected available 0.75, got %s", rec.Available)
	}
}

func TestMemoryStoreRejectsNegativeResult(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.UpsertAdd(ctx, "u1", "ETH", decimal.RequireFromString("-1")); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance on missing record, got %v", err)
	}

	if _, err := store.UpsertAdd(ctx, "u1", "ETH", decimal.RequireFromString("2")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.UpsertAdd(ctx, "u1", "ETH", decimal.RequireFromString("-3")); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	rec, err := store.Get(ctx, "u1", "ETH")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.Available.Equal(decimal.RequireFromString("2")) {
		t.Fatalf("failed delta must not change the record, got %s", rec.Available)
	}
}

func TestMemoryStoreConcurrentAddsSameKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const workers = 32
	delta := decimal.RequireFromString("0.1")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.UpsertAdd(ctx, "u1", "BTC", delta); err != nil {
				t.Errorf("upsert add: %v", err)
			}
		}()
	}
	wg.Wait()

	rec, err := store.Get(ctx, "u1", "BTC")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := delta.Mul(decimal.NewFromInt(workers))
	if !rec.Available.Equal(want) {
		t.Fatalf("lost update: expected %s, got %s", want, rec.Available)
	}
}

func TestMemoryStoreConcurrentAddsDistinctKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const owners = 8
	var wg sync.WaitGroup
	for i := 0; i < owners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner := fmt.Sprintf("u%d", i)
			if _, err := store.UpsertAdd(ctx, owner, "USDT", decimal.RequireFromString("10")); err != nil {
				t.Errorf("upsert add for %s: %v", owner, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < owners; i++ {
		owner := fmt.Sprintf("u%d", i)
		rec, err := store.Get(ctx, owner, "USDT")
		if err != nil {
			t.Fatalf("get %s: %v", owner, err)
		}
		if !rec.Available.Equal(decimal.RequireFromString("10")) {
			t.Fatalf("owner %s: expected 10, got %s", owner, rec.Available)
		}
	}
}

func TestMemoryStoreListByOwner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.UpsertAdd(ctx, "u1", "ETH", decimal.RequireFromString("1"))
	store.UpsertAdd(ctx, "u1", "BTC", decimal.RequireFromString("2"))
	store.UpsertAdd(ctx, "u2", "BTC", decimal.RequireFromString("3"))

	records, err := store.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Currency != "BTC" || records[1].Currency != "ETH" {
		t.Fatalf("expected currency-ordered records, got %s then %s", records[0].Currency, records[1].Currency)
	}
}
