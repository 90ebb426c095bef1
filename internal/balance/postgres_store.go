package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore keeps balances in PostgreSQL. Amounts travel as NUMERIC and
// are scanned through their text form to preserve precision.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a balance store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get fetches the balance record for an (owner, currency) pair.
func (s *PostgresStore) Get(ctx context.Context, ownerID, currency string) (Balance, error) {
	row := s.db.QueryRow(ctx, `SELECT available::text, locked::text, COALESCE(linked_address, '')
        FROM balances WHERE owner_id = $1 AND currency = $2`, ownerID, currency)
	return scanBalance(row, ownerID, currency)
}

// ListByOwner returns every balance record held by an owner.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Balance, error) {
	rows, err := s.db.Query(ctx, `SELECT currency, available::text, locked::text, COALESCE(linked_address, '')
        FROM balances WHERE owner_id = $1 ORDER BY currency`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var currency, available, locked, addr string
		if err := rows.Scan(&currency, &available, &locked, &addr); err != nil {
			return nil, err
		}
		rec, err := buildBalance(ownerID, currency, available, locked, addr)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpsertAdd applies delta to the available amount. Additive deltas upsert the
// record; negative deltas only update an existing record and are rejected
// when the result would be negative. The single-statement forms rely on
// PostgreSQL row locking to serialize writers for the same key.
func (s *PostgresStore) UpsertAdd(ctx context.Context, ownerID, currency string, delta decimal.Decimal) (Balance, error) {
	if delta.IsNegative() {
		row := s.db.QueryRow(ctx, `UPDATE balances
            SET available = available + $3
            WHERE owner_id = $1 AND currency = $2 AND available + $3 >= 0
            RETURNING available::text, locked::text, COALESCE(linked_address, '')`,
			ownerID, currency, delta.String())
		rec, err := scanBalance(row, ownerID, currency)
		if errors.Is(err, ErrNotFound) {
			return Balance{}, ErrInsufficientBalance
		}
		return rec, err
	}

	row := s.db.QueryRow(ctx, `INSERT INTO balances (owner_id, currency, available, locked)
        VALUES ($1, $2, $3, 0)
        ON CONFLICT (owner_id, currency)
        DO UPDATE SET available = balances.available + EXCLUDED.available
        RETURNING available::text, locked::text, COALESCE(linked_address, '')`,
		ownerID, currency, delta.String())
	return scanBalance(row, ownerID, currency)
}

func scanBalance(row pgx.Row, ownerID, currency string) (Balance, error) {
	var available, locked, addr string
	if err := row.Scan(&available, &locked, &addr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Balance{}, ErrNotFound
		}
		return Balance{}, err
	}
	return buildBalance(ownerID, currency, available, locked, addr)
}

func buildBalance(ownerID, currency, available, locked, addr string) (Balance, error) {
	avail, err := decimal.NewFromString(available)
	if err != nil {
		return Balance{}, fmt.Errorf("parse available: %w", err)
	}
	lock, err := decimal.NewFromString(locked)
	if err != nil {
		return Balance{}, fmt.Errorf("parse locked: %w", err)
	}
	return Balance{
		OwnerID:       ownerID,
		Currency:      currency,
		Available:     avail,
		Locked:        lock,
		LinkedAddress: addr,
	}, nil
}
