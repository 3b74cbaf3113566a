package check

import (
	"log/slog"
	"time"

	"github.com/rentcheck/rentcheck-backend/internal/domain/matcher"
	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
	"github.com/rentcheck/rentcheck-backend/internal/domain/schedule"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/storage"
)

// Checker verifies rent receipt against already-stored transactions,
// without touching the provider. It looks at a ±1 day window around the
// expected rent date and uses the looser 10% amount tolerance.
type Checker struct {
	repo    storage.Repository
	matcher *matcher.Matcher
	logger  *slog.Logger

	now func() time.Time
}

// NewChecker creates a stored-window rent checker.
func NewChecker(repo storage.Repository, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		repo:    repo,
		matcher: matcher.NewMatcher(matcher.DefaultWindowConfig()),
		logger:  logger,
		now:     time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (c *Checker) SetNow(now func() time.Time) {
	c.now = now
}

// CheckRentForProperty reports whether rent was received for the
// property around its expected date relative to checkDate. Matching
// transactions are flagged as matched in storage.
func (c *Checker) CheckRentForProperty(p *rental.Property, checkDate time.Time) (*rental.CheckResult, error) {
	expected := schedule.ExpectedRentDate(p, checkDate)

	start := expected.AddDate(0, 0, -1)
	end := expected.AddDate(0, 0, 1)

	transactions, err := c.repo.GetTransactionsByDateRange(p.ID, start, end)
	if err != nil {
		return nil, err
	}

	var matched []*rental.Transaction
	for _, t := range transactions {
		if !c.matcher.IsRentPayment(t.Amount, t.Description, p) {
			continue
		}
		if err := c.repo.MarkTransactionMatched(t.ID); err != nil {
			c.logger.Warn("Failed to mark transaction matched", "transaction_id", t.ID, "error", err)
		}
		t.Matched = true
		matched = append(matched, t)
	}

	return &rental.CheckResult{
		PropertyID:          p.ID,
		PropertyName:        p.Name,
		ExpectedDate:        expected,
		RentReceived:        len(matched) > 0,
		MatchedTransactions: matched,
		ExpectedAmount:      p.RentAmount,
	}, nil
}

// CheckAllForUser checks every property belonging to a user.
func (c *Checker) CheckAllForUser(userID int64, checkDate time.Time) ([]*rental.CheckResult, error) {
	properties, err := c.repo.GetPropertiesByUserID(userID)
	if err != nil {
		return nil, err
	}

	results := make([]*rental.CheckResult, 0, len(properties))
	for _, p := range properties {
		result, err := c.CheckRentForProperty(p, checkDate)
		if err != nil {
			c.logger.Error("Property check failed", "property_id", p.ID, "error", err)
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// OverdueForUser returns the user's properties with rent overdue by the
// given number of days.
func (c *Checker) OverdueForUser(userID int64, daysOverdue int) ([]*rental.CheckResult, error) {
	checkDate := c.now().AddDate(0, 0, -daysOverdue)

	results, err := c.CheckAllForUser(userID, checkDate)
	if err != nil {
		return nil, err
	}

	var overdue []*rental.CheckResult
	for _, r := range results {
		if r.RentReceived {
			continue
		}
		r.DaysOverdue = daysOverdue
		overdue = append(overdue, r)
	}
	return overdue, nil
}
