package notification

import "context"

// Repository defines persistence for registered devices.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	GetActiveTokens(ctx context.Context) ([]*DeviceToken, error)
	DeactivateToken(ctx context.Context, token string) error
}
