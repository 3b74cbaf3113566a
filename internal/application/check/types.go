package check

import (
	"context"
	"log/slog"
	"time"

	"github.com/rentcheck/rentcheck-backend/internal/adapters/bank"
	"github.com/rentcheck/rentcheck-backend/internal/domain/matcher"
	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/storage"
)

// Notifier delivers overdue alerts. Implementations are fire-and
// forget: the scheduler logs a returned error and moves on.
type Notifier interface {
	NotifyRentOverdue(ctx context.Context, user *rental.User, result *rental.CheckResult) error
}

// RunSummary aggregates one daily check run.
type RunSummary struct {
	RunID             string                `json:"run_id"`
	PropertiesChecked int                   `json:"properties_checked"`
	APICallsUsed      int                   `json:"api_calls_used"`
	NotificationsSent int                   `json:"notifications_sent"`
	SuccessfulChecks  int                   `json:"successful_checks"`
	FailedChecks      int                   `json:"failed_checks"`
	TotalCost         float64               `json:"total_cost"`
	Details           []PropertyCheckDetail `json:"details"`
}

// PropertyCheckDetail is the per-property outcome inside a run.
type PropertyCheckDetail struct {
	PropertyID           int64  `json:"property_id"`
	Success              bool   `json:"success"`
	TransactionsFetched  int    `json:"transactions_fetched"`
	TransactionsStored   int    `json:"transactions_stored"`
	RentPaymentsDetected int    `json:"rent_payments_detected"`
	APICallsUsed         int    `json:"api_calls_used"`
	NotificationSent     bool   `json:"notification_sent"`
	Error                string `json:"error,omitempty"`
}

// ScheduleEntry is one projected property check in the upcoming
// schedule.
type ScheduleEntry struct {
	CheckDate       time.Time        `json:"check_date"`
	PropertyID      int64            `json:"property_id"`
	PropertyAddress string           `json:"property_address"`
	UserEmail       string           `json:"user_email"`
	RentAmount      float64          `json:"rent_amount"`
	Frequency       rental.Frequency `json:"frequency"`
}

// Scheduler runs the daily rent check: it selects properties whose
// rent was due yesterday, fetches a minimal transaction window per
// property, classifies payments, and notifies on misses.
type Scheduler struct {
	repo     storage.Repository
	gateway  *bank.Gateway
	matcher  *matcher.Matcher
	notifier Notifier
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewScheduler creates a scheduler. The matcher config is the sync
// path's (5% tolerance) unless overridden via SetMatcher.
func NewScheduler(repo storage.Repository, gateway *bank.Gateway, notifier Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		repo:     repo,
		gateway:  gateway,
		matcher:  matcher.NewMatcher(matcher.DefaultSyncConfig()),
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SetMatcher overrides the payment matcher (e.g. custom tolerances).
func (s *Scheduler) SetMatcher(m *matcher.Matcher) {
	s.matcher = m
}

// SetNow overrides the clock, for tests.
func (s *Scheduler) SetNow(now func() time.Time) {
	s.now = now
}
