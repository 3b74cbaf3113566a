package bank

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAkahuClient_GetTransactions(t *testing.T) {
	start := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "client-id", r.Header.Get("X-Akahu-ID"))

		// Timestamps ride as millisecond epochs
		assert.Equal(t, strconv.FormatInt(start.UnixMilli(), 10), r.URL.Query().Get("start"))
		assert.Equal(t, strconv.FormatInt(end.UnixMilli(), 10), r.URL.Query().Get("end"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"id": "txn_1", "date": "2025-06-06T00:00:00Z", "amount": 450.00, "description": "RENT123 payment", "type": "CREDIT"},
			{"id": "txn_2", "date": "2025-06-07T00:00:00Z", "amount": -25.00, "description": "Coffee", "type": "DEBIT"}
		]}`))
	}))
	defer server.Close()

	client := NewAkahuClient("client-id", "client-secret", server.URL, nil)

	transactions, err := client.GetTransactions(context.Background(), "user-token", start, end, "")
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	assert.Equal(t, "txn_1", transactions[0].ID)
	assert.Equal(t, 450.00, transactions[0].Amount)
	assert.Equal(t, "RENT123 payment", transactions[0].Description)
	assert.NotEmpty(t, transactions[0].Raw, "raw payload should be preserved")

	assert.Equal(t, -25.00, transactions[1].Amount)
}

func TestAkahuClient_GetTransactions_AccountFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acc_123", r.URL.Query().Get("account"))
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewAkahuClient("client-id", "client-secret", server.URL, nil)

	transactions, err := client.GetTransactions(context.Background(), "token",
		time.Now().AddDate(0, 0, -1), time.Now(), "acc_123")
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestAkahuClient_GetTransactions_ServerErrorYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewAkahuClient("client-id", "client-secret", server.URL, nil)

	transactions, err := client.GetTransactions(context.Background(), "bad-token",
		time.Now().AddDate(0, 0, -1), time.Now(), "")
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestAkahuClient_GetAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		_, _ = w.Write([]byte(`{"items": [
			{"id": "acc_1", "name": "Everyday", "bank": "BNZ", "type": "CHECKING"}
		]}`))
	}))
	defer server.Close()

	client := NewAkahuClient("client-id", "client-secret", server.URL, nil)

	accounts, err := client.GetAccounts(context.Background(), "token")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "acc_1", accounts[0].ID)
	assert.Equal(t, "BNZ", accounts[0].Bank)
}

func TestAkahuClient_ExchangeCodeForToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

		_, _ = w.Write([]byte(`{"access_token": "new-token"}`))
	}))
	defer server.Close()

	client := NewAkahuClient("client-id", "client-secret", server.URL, nil)

	token, err := client.ExchangeCodeForToken(context.Background(), "auth-code", "https://app.example.com/callback")
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
}

func TestAkahuClient_ExchangeCodeForToken_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewAkahuClient("client-id", "client-secret", server.URL, nil)

	_, err := client.ExchangeCodeForToken(context.Background(), "bad-code", "https://app.example.com/callback")
	assert.Error(t, err)
}

func TestAkahuClient_AuthorizationURL(t *testing.T) {
	client := NewAkahuClient("client-id", "client-secret", "", nil)

	raw := client.AuthorizationURL(42, "https://app.example.com/callback")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "42", parsed.Query().Get("state"))
	assert.Equal(t, "https://app.example.com/callback", parsed.Query().Get("redirect_uri"))
	assert.Contains(t, raw, DefaultBaseURL)
}
