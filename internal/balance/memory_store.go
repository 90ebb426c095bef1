package balance

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]Balance
	locks   map[string]*sync.Mutex
}

// NewMemoryStore creates a concurrency-safe in-memory balance store. Writers
// for the same (owner, currency) pair serialize on a per-key mutex; writers
// for different pairs proceed in parallel.
func NewMemoryStore() Store {
	return &memoryStore{
		records: make(map[string]Balance),
		locks:   make(map[string]*sync.Mutex),
	}
}

func key(ownerID, currency string) string {
	return ownerID + "/" + currency
}

func (s *memoryStore) keyLock(k string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk, ok := s.locks[k]
	if !ok {
		lk = &sync.Mutex{}
		s.locks[k] = lk
	}
	return lk
}

func (s *memoryStore) Get(_ context.Context, ownerID, currency string) (Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key(ownerID, currency)]
	if !ok {
		return Balance{}, ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) ListByOwner(_ context.Context, ownerID string) ([]Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Balance
	for _, rec := range s.records {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (s *memoryStore) UpsertAdd(_ context.Context, ownerID, currency string, delta decimal.Decimal) (Balance, error) {
	k := key(ownerID, currency)
	lk := s.keyLock(k)
	lk.Lock()
	defer lk.Unlock()

	s.mu.RLock()
	rec, exists := s.records[k]
	s.mu.RUnlock()

	if !exists {
		rec = Balance{OwnerID: ownerID, Currency: currency, Available: decimal.Zero, Locked: decimal.Zero}
	}

	next := rec.Available.Add(delta)
	if next.IsNegative() {
		return Balance{}, ErrInsufficientBalance
	}
	rec.Available = next

	s.mu.Lock()
	s.records[k] = rec
	s.mu.Unlock()

	return rec, nil
}
