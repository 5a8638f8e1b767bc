package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lifecfo/internal/domain/scoring"
)

// SettingsRepository persists the job-exit targets as a single JSON row
type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load returns the stored settings, or the defaults if none were saved
func (r *SettingsRepository) Load(ctx context.Context) (scoring.Settings, error) {
	query := `
		SELECT data
		FROM job_exit_settings
		WHERE id = 1
	`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&raw)
	if err == sql.ErrNoRows {
		return scoring.DefaultSettings(), nil
	}
	if err != nil {
		return scoring.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	var set scoring.Settings
	if err := json.Unmarshal(raw, &set); err != nil {
		return scoring.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return set, nil
}

// Save stores the settings, replacing the previous ones
func (r *SettingsRepository) Save(ctx context.Context, set scoring.Settings) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `
		INSERT INTO job_exit_settings (id, data, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE
			SET data = EXCLUDED.data,
			    updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, raw); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
