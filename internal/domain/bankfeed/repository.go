package bankfeed

import "context"

// ConnectionRepository persists linked institutions.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *Connection) error
	GetByID(ctx context.Context, id string) (*Connection, error)
	List(ctx context.Context) ([]*Connection, error)
	Delete(ctx context.Context, id string) error
}

// BalanceRepository persists last-known balances keyed by external
// account id.
type BalanceRepository interface {
	Upsert(ctx context.Context, accountID string, balance Balance) error
	ListAll(ctx context.Context) (map[string]Balance, error)
	DeleteByAccountIDs(ctx context.Context, accountIDs []string) error
}

// TransactionRepository persists ingested transactions.
type TransactionRepository interface {
	Upsert(ctx context.Context, tx Transaction) error
	ListRecent(ctx context.Context, limit int) ([]Transaction, error)
	DeleteByAccountIDs(ctx context.Context, accountIDs []string) error
}
