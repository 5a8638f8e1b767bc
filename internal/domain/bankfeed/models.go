package bankfeed

import (
	"errors"
	"time"
)

// RedactedCredential replaces the stored bank-link credential anywhere the
// connection is serialized for display or export.
const RedactedCredential = "[HIDDEN]"

// Domain errors
var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrEmptyPublicToken   = errors.New("public token is required")
)

// Connection is a linked institution. AccessToken is the aggregation
// credential, stored encrypted and never returned unmasked.
type Connection struct {
	ID              string       `json:"id"`
	InstitutionName string       `json:"institutionName"`
	InstitutionID   string       `json:"institutionId"`
	Accounts        []SubAccount `json:"accounts"`
	ConnectedAt     time.Time    `json:"connectedAt"`
	AccessToken     string       `json:"-"`
}

// SubAccount is one account inside a linked institution.
type SubAccount struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subtype string `json:"subtype"`
}

// Balance is the last-known state of one external account.
type Balance struct {
	Current     float64   `json:"current"`
	Available   float64   `json:"available"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Transaction is an ingested bank transaction. Amount is inflow-positive;
// the provider's outflow-positive convention is negated at ingestion.
type Transaction struct {
	ID        string  `json:"id"`
	AccountID string  `json:"accountId"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
}

// TotalCurrentBalance sums the current balances across accounts.
// A missing entry simply contributes nothing.
func TotalCurrentBalance(balances map[string]Balance) float64 {
	var total float64
	for _, b := range balances {
		total += b.Current
	}
	return total
}
