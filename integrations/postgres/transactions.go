package postgres

import (
	"context"
	"fmt"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// upsertSQL merges by ref_id the same way ledger.Merge does: amount and date
// follow the new slip, sender, receiver and bank only when it resolved them.
const upsertSQL = `
	INSERT INTO transactions (
		id, ref_id, type, amount, description, date, sender, receiver, bank, category, source, note
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (ref_id) WHERE ref_id IS NOT NULL DO UPDATE SET
		amount = EXCLUDED.amount,
		date = EXCLUDED.date,
		sender = COALESCE(EXCLUDED.sender, transactions.sender),
		receiver = COALESCE(EXCLUDED.receiver, transactions.receiver),
		bank = COALESCE(EXCLUDED.bank, transactions.bank),
		updated_at = NOW()
`

const listSQL = `
	SELECT id, ref_id, type, amount, description, date, sender, receiver, bank, category, source, note
	FROM transactions
	ORDER BY date, created_at
`

// nullable maps empty strings to SQL NULL so the partial index and COALESCE
// treat them as unresolved.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Write upserts transactions in a single batch.
func (db *DB) Write(ctx context.Context, txns []common.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, tx := range txns {
		batch.Queue(upsertSQL,
			tx.ID, nullable(tx.RefID), string(tx.Type), tx.Amount, tx.Description, tx.Date,
			nullable(tx.Sender), nullable(tx.Receiver), nullable(tx.Bank),
			tx.Category, tx.Source, tx.Note,
		)
	}

	br := db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, tx := range txns {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert transaction %s: %w", tx.ID, err)
		}
	}
	return nil
}

// List returns every stored transaction ordered by date.
func (db *DB) List(ctx context.Context) ([]common.Transaction, error) {
	rows, err := db.Pool.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (common.Transaction, error) {
		var (
			tx                            common.Transaction
			txType                        string
			amount                        decimal.Decimal
			refID, sender, receiver, bank *string
		)
		err := row.Scan(&tx.ID, &refID, &txType, &amount, &tx.Description, &tx.Date,
			&sender, &receiver, &bank, &tx.Category, &tx.Source, &tx.Note)
		if err != nil {
			return tx, err
		}
		tx.Type = common.TxType(txType)
		tx.Amount = amount
		tx.RefID = deref(refID)
		tx.Sender = deref(sender)
		tx.Receiver = deref(receiver)
		tx.Bank = deref(bank)
		return tx, nil
	})
}
