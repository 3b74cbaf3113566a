package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the production Akahu API endpoint.
const DefaultBaseURL = "https://api.akahu.io/v1"

// requestTimeout bounds every provider call so a hung connection
// degrades to a logged failure instead of stalling the daily run.
const requestTimeout = 30 * time.Second

// AkahuClient talks to the real Akahu HTTPS JSON API.
type AkahuClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	http         *retryablehttp.Client
	logger       *slog.Logger
}

// Compile-time check that AkahuClient implements Client
var _ Client = (*AkahuClient)(nil)

// NewAkahuClient creates a client for the real provider API. baseURL
// may be empty to use the production endpoint.
func NewAkahuClient(clientID, clientSecret, baseURL string, logger *slog.Logger) *AkahuClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = requestTimeout
	rc.Logger = nil

	return &AkahuClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         rc,
		logger:       logger,
	}
}

// itemsEnvelope is the provider's standard list payload.
type itemsEnvelope struct {
	Items []json.RawMessage `json:"items"`
}

// GetAccounts returns the user's bank accounts. Provider failures are
// logged and yield an empty list.
func (c *AkahuClient) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	body, ok := c.get(ctx, accessToken, c.baseURL+"/accounts")
	if !ok {
		return nil, nil
	}

	var envelope itemsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Error("Failed to decode accounts response", "error", err)
		return nil, nil
	}

	accounts := make([]Account, 0, len(envelope.Items))
	for _, item := range envelope.Items {
		var a Account
		if err := json.Unmarshal(item, &a); err != nil {
			c.logger.Warn("Skipping malformed account", "error", err)
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// GetTransactions returns transactions in [start, end) for the user.
// Timestamps are sent as millisecond epochs per the provider API.
// Non-2xx responses are logged and yield an empty list.
func (c *AkahuClient) GetTransactions(ctx context.Context, accessToken string, start, end time.Time, accountID string) ([]RawTransaction, error) {
	params := url.Values{}
	params.Set("start", strconv.FormatInt(start.UnixMilli(), 10))
	params.Set("end", strconv.FormatInt(end.UnixMilli(), 10))
	if accountID != "" {
		params.Set("account", accountID)
	}

	body, ok := c.get(ctx, accessToken, c.baseURL+"/transactions?"+params.Encode())
	if !ok {
		return nil, nil
	}

	var envelope itemsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Error("Failed to decode transactions response", "error", err)
		return nil, nil
	}

	transactions := make([]RawTransaction, 0, len(envelope.Items))
	for _, item := range envelope.Items {
		var t RawTransaction
		if err := json.Unmarshal(item, &t); err != nil {
			c.logger.Warn("Skipping malformed transaction", "error", err)
			continue
		}
		t.Raw = item
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// ExchangeCodeForToken exchanges an OAuth authorization code for an
// access token.
func (c *AkahuClient) ExchangeCodeForToken(ctx context.Context, code, redirectURI string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("token exchange failed: status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}
	return payload.AccessToken, nil
}

// AuthorizationURL builds the OAuth authorization URL for a user. The
// user id rides in the state parameter.
func (c *AkahuClient) AuthorizationURL(userID int64, redirectURI string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("state", strconv.FormatInt(userID, 10))
	return c.baseURL + "/auth?" + params.Encode()
}

// get issues an authenticated GET and returns the body, or ok=false
// after logging on any transport or HTTP failure.
func (c *AkahuClient) get(ctx context.Context, accessToken, rawURL string) (body []byte, ok bool) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		c.logger.Error("Failed to build provider request", "url", rawURL, "error", err)
		return nil, false
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Akahu-ID", c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Provider request failed", "url", rawURL, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Provider returned non-2xx status", "url", rawURL, "status", resp.StatusCode)
		return nil, false
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read provider response", "url", rawURL, "error", err)
		return nil, false
	}
	return body, true
}
