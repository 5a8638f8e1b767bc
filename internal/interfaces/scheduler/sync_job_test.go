package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/notification"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/shared/messages"
)

type stubProvider struct {
	accountsErr error
}

func (p *stubProvider) CreateLinkToken(ctx context.Context) (string, error) { return "", nil }

func (p *stubProvider) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	return "", "", nil
}

func (p *stubProvider) FetchAccounts(ctx context.Context, accessToken string) ([]bankfeed.ProviderAccount, error) {
	if p.accountsErr != nil {
		return nil, p.accountsErr
	}
	return []bankfeed.ProviderAccount{{ID: "acc-1", Current: 100}}, nil
}

func (p *stubProvider) FetchRecentTransactions(ctx context.Context, accessToken string) ([]bankfeed.ProviderTransaction, error) {
	return nil, nil
}

type stubConnectionRepo struct {
	conns []*bankfeed.Connection
}

func (r *stubConnectionRepo) Create(ctx context.Context, conn *bankfeed.Connection) error { return nil }

func (r *stubConnectionRepo) GetByID(ctx context.Context, id string) (*bankfeed.Connection, error) {
	return nil, nil
}

func (r *stubConnectionRepo) List(ctx context.Context) ([]*bankfeed.Connection, error) {
	return r.conns, nil
}

func (r *stubConnectionRepo) Delete(ctx context.Context, id string) error { return nil }

type stubBalanceRepo struct{}

func (stubBalanceRepo) Upsert(ctx context.Context, accountID string, b bankfeed.Balance) error {
	return nil
}

func (stubBalanceRepo) ListAll(ctx context.Context) (map[string]bankfeed.Balance, error) {
	return nil, nil
}

func (stubBalanceRepo) DeleteByAccountIDs(ctx context.Context, accountIDs []string) error {
	return nil
}

type stubTransactionRepo struct{}

func (stubTransactionRepo) Upsert(ctx context.Context, tx bankfeed.Transaction) error { return nil }

func (stubTransactionRepo) ListRecent(ctx context.Context, limit int) ([]bankfeed.Transaction, error) {
	return nil, nil
}

func (stubTransactionRepo) DeleteByAccountIDs(ctx context.Context, accountIDs []string) error {
	return nil
}

type passthroughCipher struct{}

func (passthroughCipher) Encrypt(plaintext string) (string, error)  { return plaintext, nil }
func (passthroughCipher) Decrypt(ciphertext string) (string, error) { return ciphertext, nil }

type recordingMessenger struct {
	bodies []string
}

func (m *recordingMessenger) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *recordingMessenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	m.bodies = append(m.bodies, body)
	return nil
}

type stubDeviceRepo struct{}

func (stubDeviceRepo) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	return nil, nil
}

func (stubDeviceRepo) GetActiveTokens(ctx context.Context) ([]*notification.DeviceToken, error) {
	return []*notification.DeviceToken{{Token: "fcm-1", IsActive: true}}, nil
}

func (stubDeviceRepo) DeactivateToken(ctx context.Context, token string) error { return nil }

func newStubSyncService(provider *stubProvider, conns ...*bankfeed.Connection) *bankfeed.SyncService {
	return bankfeed.NewSyncService(provider, &stubConnectionRepo{conns: conns}, stubBalanceRepo{}, stubTransactionRepo{}, passthroughCipher{})
}

func TestSyncJobProvider_OneJobPerConnection(t *testing.T) {
	sync := newStubSyncService(&stubProvider{},
		&bankfeed.Connection{ID: "c1", InstitutionName: "First National"},
		&bankfeed.Connection{ID: "c2", InstitutionName: "Credit Union"},
	)

	provider := SyncJobProvider(sync, nil, nil, nil, nil)
	jobs, err := provider(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Description() != "Bank sync for First National" {
		t.Errorf("unexpected description %q", jobs[0].Description())
	}
}

func TestSyncJobProvider_AppendsReserveCheck(t *testing.T) {
	sync := newStubSyncService(&stubProvider{},
		&bankfeed.Connection{ID: "c1", InstitutionName: "First National"},
	)
	store := records.NewStore(records.Snapshot{Version: records.CurrentSnapshotVersion})

	provider := SyncJobProvider(sync, nil, nil, store, stubBalanceRepo{})
	jobs, err := provider(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected sync job plus reserve check, got %d jobs", len(jobs))
	}
	if jobs[1].Description() != "Emergency fund reserve check" {
		t.Errorf("unexpected description %q", jobs[1].Description())
	}
}

func TestConnectionSyncJob_SuccessSendsNoAlert(t *testing.T) {
	messenger := &recordingMessenger{}
	alerts := notification.NewService(stubDeviceRepo{}, messenger)
	sync := newStubSyncService(&stubProvider{})

	job := NewConnectionSyncJob(&bankfeed.Connection{InstitutionName: "First National"}, sync, alerts, nil)
	if err := job.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messenger.bodies) != 0 {
		t.Errorf("expected no alerts, got %v", messenger.bodies)
	}
}

func TestConnectionSyncJob_DegradedRefreshAlerts(t *testing.T) {
	messenger := &recordingMessenger{}
	alerts := notification.NewService(stubDeviceRepo{}, messenger)
	sync := newStubSyncService(&stubProvider{accountsErr: errors.New("upstream timeout")})

	msgs := &messages.Messages{
		SyncFailed: messages.MessageText{
			Title: "Bank sync failed",
			Body:  "Could not refresh %s. Balances show the last successful sync.",
		},
	}

	job := NewConnectionSyncJob(&bankfeed.Connection{InstitutionName: "First National"}, sync, alerts, msgs)
	if err := job.Execute(context.Background()); err != nil {
		t.Fatalf("a degraded refresh must not be an error, got: %v", err)
	}

	if len(messenger.bodies) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(messenger.bodies))
	}
	if !strings.Contains(messenger.bodies[0], "First National") {
		t.Errorf("alert body does not name the institution: %q", messenger.bodies[0])
	}
}
