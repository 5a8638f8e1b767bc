package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"lifecfo/internal/domain/bankfeed"
)

// TransactionRepository persists ingested bank transactions
type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Upsert(ctx context.Context, tx bankfeed.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, amount, date, name, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
			SET amount = EXCLUDED.amount,
			    date = EXCLUDED.date,
			    name = EXCLUDED.name,
			    category = EXCLUDED.category
	`

	_, err := r.db.ExecContext(ctx, query, tx.ID, tx.AccountID, tx.Amount, tx.Date, tx.Name, tx.Category)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListRecent(ctx context.Context, limit int) ([]bankfeed.Transaction, error) {
	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT id, account_id, amount, date, name, category
		FROM transactions
		ORDER BY date DESC, id
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []bankfeed.Transaction
	for rows.Next() {
		var tx bankfeed.Transaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Amount, &tx.Date, &tx.Name, &tx.Category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepository) DeleteByAccountIDs(ctx context.Context, accountIDs []string) error {
	if len(accountIDs) == 0 {
		return nil
	}

	query := `DELETE FROM transactions WHERE account_id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(accountIDs)); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}
