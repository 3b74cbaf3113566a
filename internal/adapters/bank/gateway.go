package bank

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/storage"
)

// DefaultCostPerAPICall is the estimated provider charge per
// transaction fetch, in dollars. Deployments repoint Gateway.CostPerAPICall
// at actual provider pricing; this default tracks Akahu's published rate.
const DefaultCostPerAPICall = 0.10

// Gateway wraps a provider Client with transaction persistence and
// per-call cost accounting. Every fetch is exactly one paid API call
// over the narrowest window that can contain the expected payment.
type Gateway struct {
	client Client
	store  storage.TransactionStore
	logger *slog.Logger

	// CostPerAPICall is the per-fetch cost unit used in run summaries.
	CostPerAPICall float64
}

// NewGateway creates a gateway over the given provider client and
// transaction store.
func NewGateway(client Client, store storage.TransactionStore, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client:         client,
		store:          store,
		logger:         logger,
		CostPerAPICall: DefaultCostPerAPICall,
	}
}

// Client exposes the underlying provider client, for callers that need
// the OAuth operations.
func (g *Gateway) Client() Client {
	return g.client
}

// FetchRentDueTransactions fetches the 3-day window [dueDate-1,
// dueDate+2) around a property's rent due date with a single provider
// call, stores the results with external-id deduplication, and returns
// counts plus the call cost.
//
// Failures are logged and reported in the result; they never propagate
// as errors, so one property's failure cannot abort a batch run.
func (g *Gateway) FetchRentDueTransactions(ctx context.Context, accessToken string, propertyID int64, rentDueDate time.Time) SyncResult {
	if accessToken == "" {
		g.logger.Warn("No access token for property, skipping fetch", "property_id", propertyID)
		return SyncResult{PropertyID: propertyID, Error: "no access token"}
	}

	start := rentDueDate.AddDate(0, 0, -1)
	end := rentDueDate.AddDate(0, 0, 2)

	g.logger.Info("Fetching rent-due transactions",
		"property_id", propertyID,
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
	)

	transactions, err := g.client.GetTransactions(ctx, accessToken, start, end, "")
	if err != nil {
		g.logger.Error("Transaction fetch failed", "property_id", propertyID, "error", err)
		return SyncResult{PropertyID: propertyID, Error: err.Error()}
	}

	stored := g.StoreTransactions(transactions, propertyID)

	return SyncResult{
		Success:             true,
		PropertyID:          propertyID,
		TransactionsFetched: len(transactions),
		TransactionsStored:  stored,
		APICallsUsed:        1,
		Cost:                g.CostPerAPICall,
		Transactions:        transactions,
	}
}

// StoreTransactions imports raw provider transactions for a property
// and returns how many were stored. Only credits are imported, amounts
// are stored as absolute values, and transactions whose external id is
// already present are skipped, making re-ingest idempotent. Malformed
// entries are logged and skipped rather than failing the batch.
func (g *Gateway) StoreTransactions(transactions []RawTransaction, propertyID int64) int {
	stored := 0

	for _, raw := range transactions {
		// Only credit transactions can be rent payments
		if raw.Amount <= 0 {
			continue
		}

		date, err := raw.ParseDate()
		if err != nil {
			g.logger.Warn("Skipping transaction with unparseable date",
				"external_id", raw.ID, "date", raw.Date, "error", err)
			continue
		}

		created, err := g.store.CreateTransaction(&rental.Transaction{
			PropertyID:  propertyID,
			Date:        date,
			Amount:      math.Abs(raw.Amount),
			Description: raw.Description,
			ExternalID:  raw.ID,
			RawPayload:  raw.Raw,
		})
		if err != nil {
			g.logger.Error("Failed to store transaction", "external_id", raw.ID, "error", err)
			continue
		}
		if created != nil {
			stored++
		}
	}

	return stored
}
