package plaidlink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "client-id", "secret-key")
	client.now = func() time.Time { return time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC) }
	return client, server
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
	return body
}

func TestCreateLinkToken(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != linkTokenPath {
			t.Errorf("path = %q, want %q", r.URL.Path, linkTokenPath)
		}
		body := decodeBody(t, r)
		if body["client_id"] != "client-id" || body["secret"] != "secret-key" {
			t.Error("request missing API credentials")
		}
		json.NewEncoder(w).Encode(map[string]string{"link_token": "link-sandbox-123"})
	})
	defer server.Close()

	token, err := client.CreateLinkToken(context.Background())
	if err != nil {
		t.Fatalf("CreateLinkToken() error = %v", err)
	}
	if token != "link-sandbox-123" {
		t.Errorf("token = %q, want link-sandbox-123", token)
	}
}

func TestCreateLinkToken_EmptyToken(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})
	defer server.Close()

	if _, err := client.CreateLinkToken(context.Background()); err == nil {
		t.Error("CreateLinkToken() error = nil, want empty-token failure")
	}
}

func TestExchangePublicToken(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["public_token"] != "public-123" {
			t.Errorf("public_token = %v, want public-123", body["public_token"])
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "access-abc",
			"item_id":      "item-1",
		})
	})
	defer server.Close()

	access, item, err := client.ExchangePublicToken(context.Background(), "public-123")
	if err != nil {
		t.Fatalf("ExchangePublicToken() error = %v", err)
	}
	if access != "access-abc" || item != "item-1" {
		t.Errorf("got %q/%q, want access-abc/item-1", access, item)
	}
}

func TestFetchAccounts_MapsBalances(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"accounts": [
				{"account_id": "acc-1", "name": "Checking", "subtype": "checking",
				 "balances": {"current": 1500.50, "available": 1400.25}},
				{"account_id": "acc-2", "name": "Savings", "subtype": "savings",
				 "balances": {"current": 9000, "available": null}}
			]
		}`))
	})
	defer server.Close()

	accounts, err := client.FetchAccounts(context.Background(), "access-abc")
	if err != nil {
		t.Fatalf("FetchAccounts() error = %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(accounts))
	}
	if accounts[0].Current != 1500.50 || accounts[0].Available != 1400.25 {
		t.Errorf("account 1 balances = %v/%v", accounts[0].Current, accounts[0].Available)
	}
	// Null available reads as zero rather than failing the whole fetch.
	if accounts[1].Available != 0 {
		t.Errorf("account 2 available = %v, want 0", accounts[1].Available)
	}
}

func TestFetchRecentTransactions_Window(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["start_date"] != "2026-03-01" || body["end_date"] != "2026-03-31" {
			t.Errorf("window = %v to %v, want 2026-03-01 to 2026-03-31", body["start_date"], body["end_date"])
		}
		w.Write([]byte(`{
			"transactions": [
				{"transaction_id": "tx-1", "account_id": "acc-1", "amount": 42.80,
				 "date": "2026-03-28", "name": "Coffee Shop", "category": ["Food and Drink"]}
			]
		}`))
	})
	defer server.Close()

	txs, err := client.FetchRecentTransactions(context.Background(), "access-abc")
	if err != nil {
		t.Fatalf("FetchRecentTransactions() error = %v", err)
	}
	if len(txs) != 1 || txs[0].ID != "tx-1" || txs[0].Amount != 42.80 {
		t.Errorf("transactions = %+v, want the relayed entry", txs)
	}
}

func TestPost_APIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			ErrorType:    "INVALID_INPUT",
			ErrorCode:    "INVALID_PUBLIC_TOKEN",
			ErrorMessage: "provided public token is expired",
		})
	})
	defer server.Close()

	_, _, err := client.ExchangePublicToken(context.Background(), "public-expired")
	if err == nil {
		t.Fatal("ExchangePublicToken() error = nil, want API error")
	}
}

func TestPost_MalformedErrorBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})
	defer server.Close()

	if _, err := client.FetchAccounts(context.Background(), "access-abc"); err == nil {
		t.Error("FetchAccounts() error = nil, want status failure")
	}
}
