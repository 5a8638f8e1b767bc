package notification

import (
	"context"
	"fmt"
	"log"
)

// Service contains the business logic for alert operations
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a new alert service
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice registers a device token so alerts can reach it
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpsertDeviceToken(ctx, params)
}

// UnregisterDevice deactivates a device token
func (s *Service) UnregisterDevice(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	return s.repo.DeactivateToken(ctx, token)
}

// SendAlert pushes an alert to every active device. Delivery failures are
// logged and swallowed so callers on the hot path never block on FCM.
func (s *Service) SendAlert(ctx context.Context, title, body, category string, data map[string]string) error {
	if !IsValidCategory(category) {
		return ErrInvalidCategory
	}

	tokens, err := s.repo.GetActiveTokens(ctx)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		log.Printf("Alert %q skipped: no active device tokens", category)
		return nil
	}

	if data == nil {
		data = make(map[string]string)
	}
	if _, ok := data["route"]; !ok {
		data["route"] = category
	}

	if s.messenger == nil {
		return nil
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}

	if err := s.messenger.SendMulticast(ctx, tokenStrings, title, body, data); err != nil {
		log.Printf("Error sending %q alert: %v", category, err)
	}
	return nil
}

// EmergencyFundRiskAlert notifies that a scenario or current trajectory
// drops the emergency fund into a risky range.
func (s *Service) EmergencyFundRiskAlert(ctx context.Context, riskLevel string, fundLevel float64) error {
	body := fmt.Sprintf("Projected emergency fund of $%.2f puts reserve risk at %s.", fundLevel, riskLevel)
	return s.SendAlert(ctx, "Emergency fund at risk", body, CategoryEmergencyFund, map[string]string{
		"riskLevel": riskLevel,
	})
}

// SyncFailureAlert notifies that a linked institution failed to refresh
func (s *Service) SyncFailureAlert(ctx context.Context, institutionName string) error {
	body := fmt.Sprintf("Could not refresh %s. Balances show the last successful sync.", institutionName)
	return s.SendAlert(ctx, "Bank sync failed", body, CategorySync, map[string]string{
		"institution": institutionName,
	})
}
