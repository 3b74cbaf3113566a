// Package bank isolates all access to the external bank-data provider.
//
// The Client interface has two implementations: AkahuClient talks to
// the real HTTPS API, MockClient serves deterministic canned data for
// development and tests. The Gateway wraps a Client with transaction
// persistence and per-call cost accounting.
package bank

import (
	"context"
	"encoding/json"
	"time"
)

// Account is a bank account as reported by the provider.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bank string `json:"bank"`
	Type string `json:"type"`
}

// RawTransaction is a transaction as returned by the provider, before
// import. Raw carries the untouched provider payload; it is stored as
// opaque bytes and never deserialized back into live objects.
type RawTransaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Type        string  `json:"type"`

	Raw json.RawMessage `json:"-"`
}

// ParseDate parses the provider's timestamp format, tolerating a
// trailing "Z" UTC marker and date-only values.
func (t RawTransaction) ParseDate() (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, t.Date)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Client is the provider API surface the engine depends on. Real and
// mock variants implement the identical capability set.
type Client interface {
	// GetAccounts returns the user's bank accounts. Provider-side
	// failures are logged and yield an empty list, not an error.
	GetAccounts(ctx context.Context, accessToken string) ([]Account, error)

	// GetTransactions returns transactions in [start, end). accountID
	// may be empty to query across all accounts. Non-2xx responses are
	// logged and yield an empty list, not an error.
	GetTransactions(ctx context.Context, accessToken string, start, end time.Time, accountID string) ([]RawTransaction, error)

	// ExchangeCodeForToken exchanges an OAuth authorization code for an
	// access token.
	ExchangeCodeForToken(ctx context.Context, code, redirectURI string) (string, error)

	// AuthorizationURL builds the OAuth authorization URL for a user.
	AuthorizationURL(userID int64, redirectURI string) string
}

// SyncResult is the outcome of one rent-due transaction fetch for one
// property.
type SyncResult struct {
	Success              bool    `json:"success"`
	PropertyID           int64   `json:"property_id"`
	TransactionsFetched  int     `json:"transactions_fetched"`
	TransactionsStored   int     `json:"transactions_stored"`
	APICallsUsed         int     `json:"api_calls_used"`
	Cost                 float64 `json:"cost"`
	Error                string  `json:"error,omitempty"`

	// Transactions holds the fetched window so callers can run payment
	// matching without a second query.
	Transactions []RawTransaction `json:"-"`
}
