package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"lifecfo/internal/domain/bankfeed"
)

// BalanceRepository persists last-known account balances
type BalanceRepository struct {
	db *DB
}

func NewBalanceRepository(db *DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) Upsert(ctx context.Context, accountID string, balance bankfeed.Balance) error {
	query := `
		INSERT INTO balances (account_id, current, available, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE
			SET current = EXCLUDED.current,
			    available = EXCLUDED.available,
			    last_updated = EXCLUDED.last_updated
	`

	_, err := r.db.ExecContext(ctx, query, accountID, balance.Current, balance.Available, balance.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert balance: %w", err)
	}
	return nil
}

func (r *BalanceRepository) ListAll(ctx context.Context) (map[string]bankfeed.Balance, error) {
	query := `
		SELECT account_id, current, available, last_updated
		FROM balances
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]bankfeed.Balance)
	for rows.Next() {
		var accountID string
		var b bankfeed.Balance
		if err := rows.Scan(&accountID, &b.Current, &b.Available, &b.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[accountID] = b
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}
	return balances, nil
}

func (r *BalanceRepository) DeleteByAccountIDs(ctx context.Context, accountIDs []string) error {
	if len(accountIDs) == 0 {
		return nil
	}

	query := `DELETE FROM balances WHERE account_id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(accountIDs)); err != nil {
		return fmt.Errorf("failed to delete balances: %w", err)
	}
	return nil
}
