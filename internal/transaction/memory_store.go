package transaction

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]Transaction
}

// NewMemoryStore creates a concurrency-safe in-memory transaction store.
func NewMemoryStore() Store {
	return &memoryStore{nextID: 1, records: make(map[int64]Transaction)}
}

func (s *memoryStore) Get(_ context.Context, id int64) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.records[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return txn, nil
}

func (s *memoryStore) ListByOwner(_ context.Context, ownerID string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transaction
	for _, txn := range s.records {
		if txn.OwnerID == ownerID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *memoryStore) ListAll(_ context.Context, limit, offset int) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Transaction, 0, len(s.records))
	for _, txn := range s.records {
		all = append(all, txn)
	}
	// Newest first; ids are monotonic so they break timestamp ties.
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	return Page{
		Transactions: all[offset:end],
		Total:        total,
		HasMore:      end < total,
	}, nil
}

func (s *memoryStore) Create(_ context.Context, txn Transaction) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !txn.Status.Valid() {
		txn.Status = StatusPending
	}
	txn.ID = s.nextID
	s.nextID++
	txn.CreatedAt = time.Now().UTC()

	s.records[txn.ID] = txn
	return txn, nil
}

func (s *memoryStore) SetStatus(_ context.Context, id int64, status Status) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.records[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	txn.Status = status
	if status == StatusPending {
		txn.ExternalReference = ""
	}
	s.records[id] = txn
	return txn, nil
}

func (s *memoryStore) CompareAndSetStatus(_ context.Context, id int64, from, to Status, externalRef string) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.records[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	if txn.Status != from {
		return Transaction{}, ErrInvalidState
	}
	txn.Status = to
	if to == StatusCompleted && externalRef != "" {
		txn.ExternalReference = externalRef
	}
	s.records[id] = txn
	return txn, nil
}
