package postgres

import (
	"context"
	"fmt"

	"lifecfo/internal/domain/notification"
)

// NotificationRepository persists registered FCM device tokens
type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	query := `
		INSERT INTO fcm_device_tokens (token, device_type)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE
			SET device_type = EXCLUDED.device_type,
			    is_active = true,
			    last_used = NOW()
		RETURNING id, token, device_type, is_active, created_at, last_used
	`

	var dt notification.DeviceToken
	err := r.db.QueryRowContext(ctx, query, params.Token, params.DeviceType).Scan(
		&dt.ID, &dt.Token, &dt.DeviceType, &dt.IsActive, &dt.CreatedAt, &dt.LastUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device token: %w", err)
	}

	return &dt, nil
}

func (r *NotificationRepository) GetActiveTokens(ctx context.Context) ([]*notification.DeviceToken, error) {
	query := `
		SELECT id, token, device_type, is_active, created_at, last_used
		FROM fcm_device_tokens
		WHERE is_active = true
		ORDER BY last_used DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*notification.DeviceToken
	for rows.Next() {
		var dt notification.DeviceToken
		if err := rows.Scan(&dt.ID, &dt.Token, &dt.DeviceType, &dt.IsActive, &dt.CreatedAt, &dt.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, &dt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device tokens: %w", err)
	}
	return tokens, nil
}

func (r *NotificationRepository) DeactivateToken(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE fcm_device_tokens SET is_active = false, last_used = NOW() WHERE token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate device token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivate result: %w", err)
	}
	if affected == 0 {
		return notification.ErrDeviceTokenNotFound
	}
	return nil
}
