// Package plaidlink talks to the Plaid-compatible aggregation API that
// backs bank linking. Requests authenticate with the client id and
// secret in the JSON body, the way the Plaid API does.
package plaidlink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"lifecfo/internal/domain/bankfeed"
)

const (
	defaultTimeout        = 60 * time.Second
	linkTokenPath         = "/link/token/create"
	exchangeTokenPath     = "/item/public_token/exchange"
	balancesPath          = "/accounts/balance/get"
	transactionsPath      = "/transactions/get"
	transactionWindowDays = 30
)

// Client handles communication with the aggregation API
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	now        func() time.Time
}

// Ensure Client implements the domain provider contract
var _ bankfeed.Provider = (*Client)(nil)

// NewClient creates a new aggregation API client
func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		now:      time.Now,
	}
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

type balancesResponse struct {
	Accounts []apiAccount `json:"accounts"`
}

type apiAccount struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Subtype   string `json:"subtype"`
	Balances  struct {
		Current   float64  `json:"current"`
		Available *float64 `json:"available"`
	} `json:"balances"`
}

type transactionsResponse struct {
	Transactions []apiTransaction `json:"transactions"`
}

type apiTransaction struct {
	TransactionID string   `json:"transaction_id"`
	AccountID     string   `json:"account_id"`
	Amount        float64  `json:"amount"`
	Date          string   `json:"date"`
	Name          string   `json:"name"`
	Category      []string `json:"category"`
}

// CreateLinkToken requests a link token for starting the link flow
func (c *Client) CreateLinkToken(ctx context.Context) (string, error) {
	payload := map[string]any{
		"user":          map[string]string{"client_user_id": "household"},
		"client_name":   "Life CFO",
		"products":      []string{"transactions"},
		"country_codes": []string{"US"},
		"language":      "en",
	}

	var resp linkTokenResponse
	if err := c.post(ctx, linkTokenPath, payload, &resp); err != nil {
		return "", err
	}
	if resp.LinkToken == "" {
		return "", fmt.Errorf("API returned empty link token")
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken trades the public token from the link flow for a
// long-lived access token
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	payload := map[string]any{
		"public_token": publicToken,
	}

	var resp exchangeResponse
	if err := c.post(ctx, exchangeTokenPath, payload, &resp); err != nil {
		return "", "", err
	}
	if resp.AccessToken == "" {
		return "", "", fmt.Errorf("API returned empty access token")
	}
	return resp.AccessToken, resp.ItemID, nil
}

// FetchAccounts pulls current balances for every account on the item
func (c *Client) FetchAccounts(ctx context.Context, accessToken string) ([]bankfeed.ProviderAccount, error) {
	payload := map[string]any{
		"access_token": accessToken,
	}

	var resp balancesResponse
	if err := c.post(ctx, balancesPath, payload, &resp); err != nil {
		return nil, err
	}

	accounts := make([]bankfeed.ProviderAccount, 0, len(resp.Accounts))
	for _, acc := range resp.Accounts {
		pa := bankfeed.ProviderAccount{
			ID:      acc.AccountID,
			Name:    acc.Name,
			Subtype: acc.Subtype,
			Current: acc.Balances.Current,
		}
		if acc.Balances.Available != nil {
			pa.Available = *acc.Balances.Available
		}
		accounts = append(accounts, pa)
	}
	return accounts, nil
}

// FetchRecentTransactions pulls the last thirty days of transactions
func (c *Client) FetchRecentTransactions(ctx context.Context, accessToken string) ([]bankfeed.ProviderTransaction, error) {
	end := c.now().UTC()
	start := end.AddDate(0, 0, -transactionWindowDays)

	payload := map[string]any{
		"access_token": accessToken,
		"start_date":   start.Format("2006-01-02"),
		"end_date":     end.Format("2006-01-02"),
	}

	var resp transactionsResponse
	if err := c.post(ctx, transactionsPath, payload, &resp); err != nil {
		return nil, err
	}

	txs := make([]bankfeed.ProviderTransaction, 0, len(resp.Transactions))
	for _, tx := range resp.Transactions {
		txs = append(txs, bankfeed.ProviderTransaction{
			ID:        tx.TransactionID,
			AccountID: tx.AccountID,
			Amount:    tx.Amount,
			Date:      tx.Date,
			Name:      tx.Name,
			Category:  tx.Category,
		})
	}
	return txs, nil
}

// post sends an authenticated JSON request and decodes the response.
// Credentials go in the body, never in logs or error messages.
func (c *Client) post(ctx context.Context, path string, payload map[string]any, out any) error {
	payload["client_id"] = c.clientID
	payload["secret"] = c.secret

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.ErrorCode == "" {
			return fmt.Errorf("API request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("API error (status %d): %s - %s", resp.StatusCode, errResp.ErrorCode, errResp.ErrorMessage)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
