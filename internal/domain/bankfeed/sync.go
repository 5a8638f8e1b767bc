package bankfeed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ProviderAccount is an account as reported by the aggregation provider.
type ProviderAccount struct {
	ID        string
	Name      string
	Subtype   string
	Current   float64
	Available float64
}

// ProviderTransaction is a transaction as reported by the provider.
// Amount follows the provider's outflow-positive sign convention.
type ProviderTransaction struct {
	ID        string
	AccountID string
	Amount    float64
	Date      string
	Name      string
	Category  []string
}

// Provider is the aggregation relay contract. Implemented by the plaidlink
// client in the infrastructure layer.
type Provider interface {
	CreateLinkToken(ctx context.Context) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken string, itemID string, err error)
	FetchAccounts(ctx context.Context, accessToken string) ([]ProviderAccount, error)
	FetchRecentTransactions(ctx context.Context, accessToken string) ([]ProviderTransaction, error)
}

// TokenCipher encrypts the bank-link credential at rest.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SyncResult reports the outcome of one refresh pass.
type SyncResult struct {
	BalancesUpdated      int
	TransactionsStored   int
	FailedConnections    int
	RefreshedConnections int
}

// SyncService links institutions and refreshes their balances and
// transactions. Provider failures degrade to the last-known stored state;
// they are counted, logged, and never returned as errors from a refresh.
type SyncService struct {
	provider     Provider
	connections  ConnectionRepository
	balances     BalanceRepository
	transactions TransactionRepository
	cipher       TokenCipher
	now          func() time.Time
}

// NewSyncService creates a sync service.
func NewSyncService(provider Provider, connections ConnectionRepository, balances BalanceRepository, transactions TransactionRepository, cipher TokenCipher) *SyncService {
	return &SyncService{
		provider:     provider,
		connections:  connections,
		balances:     balances,
		transactions: transactions,
		cipher:       cipher,
		now:          time.Now,
	}
}

// CreateLinkToken requests a new link token from the provider.
func (s *SyncService) CreateLinkToken(ctx context.Context) (string, error) {
	return s.provider.CreateLinkToken(ctx)
}

// Connect exchanges a public token for a credential, stores the connection
// with the credential encrypted, and performs an initial refresh. A failed
// initial refresh does not fail the connect; balances stay at zero until
// the next scheduled pass.
func (s *SyncService) Connect(ctx context.Context, publicToken, institutionName, institutionID string) (*Connection, error) {
	if publicToken == "" {
		return nil, ErrEmptyPublicToken
	}

	accessToken, _, err := s.provider.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	conn := &Connection{
		ID:              uuid.NewString(),
		InstitutionName: institutionName,
		InstitutionID:   institutionID,
		ConnectedAt:     s.now().UTC(),
	}

	if accounts, err := s.provider.FetchAccounts(ctx, accessToken); err == nil {
		for _, acc := range accounts {
			conn.Accounts = append(conn.Accounts, SubAccount{ID: acc.ID, Name: acc.Name, Subtype: acc.Subtype})
		}
	} else {
		log.Printf("Initial account fetch failed for %s: %v", institutionName, err)
	}

	encrypted, err := s.cipher.Encrypt(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt credential: %w", err)
	}
	conn.AccessToken = encrypted

	if err := s.connections.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to store connection: %w", err)
	}

	if _, err := s.RefreshConnection(ctx, conn); err != nil {
		log.Printf("Initial refresh failed for %s: %v", institutionName, err)
	}

	return conn, nil
}

// Connections lists the stored connections
func (s *SyncService) Connections(ctx context.Context) ([]*Connection, error) {
	return s.connections.List(ctx)
}

// Disconnect removes a connection and every balance and transaction that
// came from its accounts.
func (s *SyncService) Disconnect(ctx context.Context, connectionID string) error {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn == nil {
		return ErrConnectionNotFound
	}

	accountIDs := make([]string, 0, len(conn.Accounts))
	for _, acc := range conn.Accounts {
		accountIDs = append(accountIDs, acc.ID)
	}

	if err := s.balances.DeleteByAccountIDs(ctx, accountIDs); err != nil {
		return fmt.Errorf("failed to delete balances: %w", err)
	}
	if err := s.transactions.DeleteByAccountIDs(ctx, accountIDs); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return s.connections.Delete(ctx, connectionID)
}

// RefreshConnection pulls fresh balances and transactions for one
// connection. Provider failures leave the stored state untouched and are
// reported through the result, not as errors.
func (s *SyncService) RefreshConnection(ctx context.Context, conn *Connection) (SyncResult, error) {
	var result SyncResult

	accessToken, err := s.cipher.Decrypt(conn.AccessToken)
	if err != nil {
		return result, fmt.Errorf("failed to decrypt credential: %w", err)
	}

	accounts, err := s.provider.FetchAccounts(ctx, accessToken)
	if err != nil {
		log.Printf("Balance fetch failed for %s, keeping last-known balances: %v", conn.InstitutionName, err)
		result.FailedConnections++
		return result, nil
	}

	now := s.now().UTC()
	for _, acc := range accounts {
		balance := Balance{Current: acc.Current, Available: acc.Available, LastUpdated: now}
		if err := s.balances.Upsert(ctx, acc.ID, balance); err != nil {
			return result, fmt.Errorf("failed to store balance for %s: %w", acc.ID, err)
		}
		result.BalancesUpdated++
	}

	txs, err := s.provider.FetchRecentTransactions(ctx, accessToken)
	if err != nil {
		log.Printf("Transaction fetch failed for %s, keeping stored transactions: %v", conn.InstitutionName, err)
		result.FailedConnections++
		return result, nil
	}

	for _, tx := range txs {
		ingested := Transaction{
			ID:        tx.ID,
			AccountID: tx.AccountID,
			Amount:    -tx.Amount, // provider reports outflows as positive
			Date:      tx.Date,
			Name:      tx.Name,
		}
		if len(tx.Category) > 0 {
			ingested.Category = tx.Category[0]
		}
		if err := s.transactions.Upsert(ctx, ingested); err != nil {
			return result, fmt.Errorf("failed to store transaction %s: %w", tx.ID, err)
		}
		result.TransactionsStored++
	}

	result.RefreshedConnections++
	return result, nil
}

// RefreshAll refreshes every stored connection.
func (s *SyncService) RefreshAll(ctx context.Context) (SyncResult, error) {
	conns, err := s.connections.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to list connections: %w", err)
	}

	var total SyncResult
	for _, conn := range conns {
		result, err := s.RefreshConnection(ctx, conn)
		if err != nil {
			log.Printf("Refresh failed for connection %s: %v", conn.ID, err)
			total.FailedConnections++
			continue
		}
		total.BalancesUpdated += result.BalancesUpdated
		total.TransactionsStored += result.TransactionsStored
		total.FailedConnections += result.FailedConnections
		total.RefreshedConnections += result.RefreshedConnections
	}
	return total, nil
}
