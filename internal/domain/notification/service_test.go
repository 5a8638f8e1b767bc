package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockRepository struct {
	UpsertDeviceTokenFunc func(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	GetActiveTokensFunc   func(ctx context.Context) ([]*DeviceToken, error)
	DeactivateTokenFunc   func(ctx context.Context, token string) error
}

func (m *mockRepository) UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	return m.UpsertDeviceTokenFunc(ctx, params)
}

func (m *mockRepository) GetActiveTokens(ctx context.Context) ([]*DeviceToken, error) {
	return m.GetActiveTokensFunc(ctx)
}

func (m *mockRepository) DeactivateToken(ctx context.Context, token string) error {
	return m.DeactivateTokenFunc(ctx, token)
}

type mockMessenger struct {
	SendFunc          func(ctx context.Context, token string, title, body string, data map[string]string) error
	SendMulticastFunc func(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

func (m *mockMessenger) Send(ctx context.Context, token string, title, body string, data map[string]string) error {
	return m.SendFunc(ctx, token, title, body, data)
}

func (m *mockMessenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	return m.SendMulticastFunc(ctx, tokens, title, body, data)
}

func TestRegisterDevice_Validation(t *testing.T) {
	svc := NewService(&mockRepository{}, nil)

	if _, err := svc.RegisterDevice(context.Background(), CreateDeviceTokenParams{DeviceType: "ios"}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("RegisterDevice() error = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.RegisterDevice(context.Background(), CreateDeviceTokenParams{Token: "t", DeviceType: "windows"}); !errors.Is(err, ErrInvalidDeviceType) {
		t.Errorf("RegisterDevice() error = %v, want ErrInvalidDeviceType", err)
	}
}

func TestSendAlert_MulticastsToActiveTokens(t *testing.T) {
	repo := &mockRepository{
		GetActiveTokensFunc: func(ctx context.Context) ([]*DeviceToken, error) {
			return []*DeviceToken{{Token: "tok-1"}, {Token: "tok-2"}}, nil
		},
	}
	var sentTokens []string
	var sentData map[string]string
	messenger := &mockMessenger{
		SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
			sentTokens = tokens
			sentData = data
			return nil
		},
	}

	svc := NewService(repo, messenger)
	if err := svc.SendAlert(context.Background(), "Title", "Body", CategoryGeneral, nil); err != nil {
		t.Fatalf("SendAlert() error = %v", err)
	}
	if len(sentTokens) != 2 {
		t.Errorf("multicast to %d tokens, want 2", len(sentTokens))
	}
	if sentData["route"] != CategoryGeneral {
		t.Errorf("route = %q, want category default", sentData["route"])
	}
}

func TestSendAlert_InvalidCategory(t *testing.T) {
	svc := NewService(&mockRepository{}, nil)
	if err := svc.SendAlert(context.Background(), "T", "B", "bogus", nil); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("SendAlert() error = %v, want ErrInvalidCategory", err)
	}
}

func TestSendAlert_NoTokensIsNoop(t *testing.T) {
	repo := &mockRepository{
		GetActiveTokensFunc: func(ctx context.Context) ([]*DeviceToken, error) { return nil, nil },
	}
	messenger := &mockMessenger{
		SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
			t.Error("SendMulticast called with no registered devices")
			return nil
		},
	}
	svc := NewService(repo, messenger)
	if err := svc.SendAlert(context.Background(), "T", "B", CategoryGeneral, nil); err != nil {
		t.Errorf("SendAlert() error = %v", err)
	}
}

func TestSendAlert_DeliveryFailureIsSwallowed(t *testing.T) {
	repo := &mockRepository{
		GetActiveTokensFunc: func(ctx context.Context) ([]*DeviceToken, error) {
			return []*DeviceToken{{Token: "tok-1"}}, nil
		},
	}
	messenger := &mockMessenger{
		SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
			return errors.New("fcm unavailable")
		},
	}
	svc := NewService(repo, messenger)
	if err := svc.SendAlert(context.Background(), "T", "B", CategoryGeneral, nil); err != nil {
		t.Errorf("SendAlert() error = %v, want delivery failure swallowed", err)
	}
}

func TestEmergencyFundRiskAlert_Payload(t *testing.T) {
	repo := &mockRepository{
		GetActiveTokensFunc: func(ctx context.Context) ([]*DeviceToken, error) {
			return []*DeviceToken{{Token: "tok-1"}}, nil
		},
	}
	var gotBody string
	var gotData map[string]string
	messenger := &mockMessenger{
		SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
			gotBody = body
			gotData = data
			return nil
		},
	}

	svc := NewService(repo, messenger)
	if err := svc.EmergencyFundRiskAlert(context.Background(), "high", 842.17); err != nil {
		t.Fatalf("EmergencyFundRiskAlert() error = %v", err)
	}
	if !strings.Contains(gotBody, "$842.17") || !strings.Contains(gotBody, "high") {
		t.Errorf("body = %q, want fund level and risk level", gotBody)
	}
	if gotData["riskLevel"] != "high" || gotData["route"] != CategoryEmergencyFund {
		t.Errorf("data = %v, want riskLevel and route set", gotData)
	}
}
