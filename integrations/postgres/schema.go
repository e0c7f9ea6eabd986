package postgres

import (
	"context"
	"fmt"
)

const ddl = `
CREATE TABLE IF NOT EXISTS transactions (
    id UUID PRIMARY KEY,
    ref_id VARCHAR(255),
    type VARCHAR(16) NOT NULL,
    amount NUMERIC(18,2) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    date TIMESTAMPTZ NOT NULL,
    sender TEXT,
    receiver TEXT,
    bank VARCHAR(64),
    category VARCHAR(32) NOT NULL,
    source VARCHAR(16) NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);

-- One row per slip reference; rows without a reference are never merged
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_unique_ref_id
ON transactions(ref_id) WHERE ref_id IS NOT NULL;
`

// EnsureSchema creates the transactions table and its indexes
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
