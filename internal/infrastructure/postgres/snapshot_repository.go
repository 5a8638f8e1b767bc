package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"lifecfo/internal/domain/records"
)

// SnapshotRepository persists the household record snapshot as a single
// versioned JSON row. The dataset is one household's budget, so one row
// is the whole table.
type SnapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Load returns the stored snapshot, migrated to the current version.
// A missing row yields the seeded default snapshot.
func (r *SnapshotRepository) Load(ctx context.Context) (records.Snapshot, error) {
	query := `
		SELECT data
		FROM snapshots
		WHERE id = 1
	`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&raw)
	if err == sql.ErrNoRows {
		return records.DefaultSnapshot(), nil
	}
	if err != nil {
		return records.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return records.DecodeSnapshot(raw)
}

// Save stores the snapshot, replacing the previous one
func (r *SnapshotRepository) Save(ctx context.Context, snap records.Snapshot) error {
	raw, err := records.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, version, data, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
			SET version = EXCLUDED.version,
			    data = EXCLUDED.data,
			    updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, snap.Version, raw); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
