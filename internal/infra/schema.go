package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema bootstrap for the ledger tables. Idempotent so it can run on every
// startup; a real migration tool takes over once the schema starts evolving.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
        id BIGSERIAL PRIMARY KEY,
        owner_id TEXT NOT NULL,
        kind TEXT NOT NULL CHECK (kind IN ('deposit', 'withdrawal', 'exchange')),
        currency TEXT NOT NULL,
        amount NUMERIC(30, 8) NOT NULL CHECK (amount >= 0),
        status TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'failed')),
        external_reference TEXT,
        counterparty_to TEXT,
        counterparty_from TEXT,
        network TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_owner ON transactions (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_recency ON transactions (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS balances (
        owner_id TEXT NOT NULL,
        currency TEXT NOT NULL,
        available NUMERIC(30, 8) NOT NULL CHECK (available >= 0),
        locked NUMERIC(30, 8) NOT NULL DEFAULT 0 CHECK (locked >= 0),
        linked_address TEXT,
        PRIMARY KEY (owner_id, currency)
    )`,
}

// Migrate applies the schema statements in order.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
