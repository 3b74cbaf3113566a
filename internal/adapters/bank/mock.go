package bank

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// MockAccessToken is the token the mock token exchange hands out.
const MockAccessToken = "mock_access_token_12345"

// MockClient is a deterministic in-memory Client for development and
// testing. It is seeded with canned accounts and transactions; tests
// can replace them and inspect recorded calls.
type MockClient struct {
	Accounts     []Account
	Transactions []RawTransaction

	// Error injection for testing error paths
	TransactionsErr error
	AccountsErr     error

	// Recorded from the last GetTransactions call
	CallCount   int
	LastStart   time.Time
	LastEnd     time.Time
	LastAccount string
}

// Compile-time check that MockClient implements Client
var _ Client = (*MockClient)(nil)

// NewMockClient creates a mock seeded with canned data: two accounts
// and three credit transactions dated today, yesterday, and the day
// before, cycling through typical rent amounts.
func NewMockClient() *MockClient {
	now := time.Now()

	amounts := []float64{450.00, 520.00, 380.00}
	descriptions := []string{
		"Rent payment - Smith",
		"Weekly rent",
		"Property rent - Jones",
	}

	transactions := make([]RawTransaction, 0, 3)
	for i := 0; i < 3; i++ {
		date := now.AddDate(0, 0, -i)
		transactions = append(transactions, RawTransaction{
			ID:          fmt.Sprintf("txn_mock_%d", i),
			Date:        date.Format(time.RFC3339),
			Amount:      amounts[i],
			Description: descriptions[i],
			Type:        "CREDIT",
		})
	}

	return &MockClient{
		Accounts: []Account{
			{ID: "acc_test_123", Name: "BNZ Everyday Account", Bank: "BNZ", Type: "CHECKING"},
			{ID: "acc_test_456", Name: "ASB Savings Account", Bank: "ASB", Type: "SAVINGS"},
		},
		Transactions: transactions,
	}
}

// GetAccounts returns the canned accounts.
func (m *MockClient) GetAccounts(_ context.Context, _ string) ([]Account, error) {
	if m.AccountsErr != nil {
		return nil, m.AccountsErr
	}
	return append([]Account(nil), m.Accounts...), nil
}

// GetTransactions returns the canned transactions falling in
// [start, end), recording the requested window for assertions.
func (m *MockClient) GetTransactions(_ context.Context, _ string, start, end time.Time, accountID string) ([]RawTransaction, error) {
	m.CallCount++
	m.LastStart = start
	m.LastEnd = end
	m.LastAccount = accountID

	if m.TransactionsErr != nil {
		return nil, m.TransactionsErr
	}

	var result []RawTransaction
	for _, t := range m.Transactions {
		date, err := t.ParseDate()
		if err != nil {
			continue
		}
		if date.Before(start) || !date.Before(end) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// ExchangeCodeForToken returns the fixed mock token.
func (m *MockClient) ExchangeCodeForToken(_ context.Context, _, _ string) (string, error) {
	return MockAccessToken, nil
}

// AuthorizationURL mirrors the real client's URL shape.
func (m *MockClient) AuthorizationURL(userID int64, redirectURI string) string {
	params := url.Values{}
	params.Set("client_id", "mock_client")
	params.Set("redirect_uri", redirectURI)
	params.Set("state", strconv.FormatInt(userID, 10))
	return DefaultBaseURL + "/auth?" + params.Encode()
}
