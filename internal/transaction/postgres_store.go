package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const txnColumns = `id, owner_id, kind, currency, amount::text, status,
    COALESCE(external_reference, ''), COALESCE(counterparty_to, ''),
    COALESCE(counterparty_from, ''), COALESCE(network, ''), created_at`

// PostgresStore keeps the transaction log in PostgreSQL. The conditional
// UPDATE in CompareAndSetStatus is the compare-and-set the ledger engine
// relies on: row locking guarantees only one concurrent caller sees the
// expected status.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a transaction store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get fetches a single transaction by id.
func (s *PostgresStore) Get(ctx context.Context, id int64) (Transaction, error) {
	row := s.db.QueryRow(ctx, `SELECT `+txnColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// ListByOwner returns every transaction belonging to an owner, unordered.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `SELECT `+txnColumns+` FROM transactions WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListAll returns one page of the transaction log, newest first, with the
// total count.
func (s *PostgresStore) ListAll(ctx context.Context, limit, offset int) (Page, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return Page{}, err
	}

	rows, err := s.db.Query(ctx, `SELECT `+txnColumns+` FROM transactions
        ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	txns, err := collect(rows)
	if err != nil {
		return Page{}, err
	}

	return Page{Transactions: txns, Total: total, HasMore: offset+len(txns) < total}, nil
}

// Create inserts a new transaction, letting the database assign the id.
func (s *PostgresStore) Create(ctx context.Context, txn Transaction) (Transaction, error) {
	if !txn.Status.Valid() {
		txn.Status = StatusPending
	}
	txn.CreatedAt = time.Now().UTC()

	row := s.db.QueryRow(ctx, `INSERT INTO transactions
        (owner_id, kind, currency, amount, status, external_reference, counterparty_to, counterparty_from, network, created_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10)
        RETURNING id`,
		txn.OwnerID, string(txn.Kind), txn.Currency, txn.Amount.String(), string(txn.Status),
		txn.ExternalReference, txn.CounterpartyTo, txn.CounterpartyFrom, txn.Network, txn.CreatedAt)
	if err := row.Scan(&txn.ID); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

// SetStatus overwrites the status unconditionally. Moving a record back to
// pending also clears its external reference.
func (s *PostgresStore) SetStatus(ctx context.Context, id int64, status Status) (Transaction, error) {
	row := s.db.QueryRow(ctx, `UPDATE transactions
        SET status = $2,
            external_reference = CASE WHEN $2 = 'pending' THEN NULL ELSE external_reference END
        WHERE id = $1
        RETURNING `+txnColumns, id, string(status))
	txn, err := scanTransaction(row)
	if errors.Is(err, ErrNotFound) {
		return Transaction{}, ErrNotFound
	}
	return txn, err
}

// CompareAndSetStatus atomically transitions from -> to. The WHERE clause on
// the current status makes the update a compare-and-set; when no row matches
// the store distinguishes a missing id from a lost race.
func (s *PostgresStore) CompareAndSetStatus(ctx context.Context, id int64, from, to Status, externalRef string) (Transaction, error) {
	row := s.db.QueryRow(ctx, `UPDATE transactions
        SET status = $3,
            external_reference = CASE WHEN $3 = 'completed' THEN COALESCE(NULLIF($4, ''), external_reference) ELSE external_reference END
        WHERE id = $1 AND status = $2
        RETURNING `+txnColumns, id, string(from), string(to), externalRef)

	txn, err := scanTransaction(row)
	if err == nil {
		return txn, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Transaction{}, err
	}

	// No row updated: either the id is unknown or the status already moved.
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return Transaction{}, err
	}
	if !exists {
		return Transaction{}, ErrNotFound
	}
	return Transaction{}, ErrInvalidState
}

func collect(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		txn       Transaction
		kind      string
		status    string
		amount    string
		createdAt time.Time
	)
	err := row.Scan(&txn.ID, &txn.OwnerID, &kind, &txn.Currency, &amount, &status,
		&txn.ExternalReference, &txn.CounterpartyTo, &txn.CounterpartyFrom, &txn.Network, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse amount: %w", err)
	}
	txn.Kind = Kind(kind)
	txn.Status = Status(status)
	txn.Amount = amt
	txn.CreatedAt = createdAt.UTC()
	return txn, nil
}
