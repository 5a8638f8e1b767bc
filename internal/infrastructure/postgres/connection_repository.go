package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lifecfo/internal/domain/bankfeed"
)

// ConnectionRepository persists linked institutions. Sub-accounts ride
// along as a JSON column since they are only ever read with their
// connection.
type ConnectionRepository struct {
	db *DB
}

func NewConnectionRepository(db *DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *bankfeed.Connection) error {
	accounts, err := json.Marshal(conn.Accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	query := `
		INSERT INTO connections (id, institution_name, institution_id, access_token, accounts, connected_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		conn.ID, conn.InstitutionName, conn.InstitutionID, conn.AccessToken, accounts, conn.ConnectedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*bankfeed.Connection, error) {
	query := `
		SELECT id, institution_name, institution_id, access_token, accounts, connected_at
		FROM connections
		WHERE id = $1
	`

	conn, err := scanConnection(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return conn, nil
}

func (r *ConnectionRepository) List(ctx context.Context) ([]*bankfeed.Connection, error) {
	query := `
		SELECT id, institution_name, institution_id, access_token, accounts, connected_at
		FROM connections
		ORDER BY connected_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var conns []*bankfeed.Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		conns = append(conns, conn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}
	return conns, nil
}

func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return bankfeed.ErrConnectionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*bankfeed.Connection, error) {
	var conn bankfeed.Connection
	var accounts []byte
	err := row.Scan(
		&conn.ID, &conn.InstitutionName, &conn.InstitutionID, &conn.AccessToken, &accounts, &conn.ConnectedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		if err := json.Unmarshal(accounts, &conn.Accounts); err != nil {
			return nil, fmt.Errorf("failed to decode accounts: %w", err)
		}
	}
	return &conn, nil
}
