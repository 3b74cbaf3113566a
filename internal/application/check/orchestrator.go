// Package check orchestrates the daily rent check and the stored
// transaction window checker.
//
// Run shape: collect due properties, then per property fetch a 3-day
// window, match payments, and notify on a miss. A failed property is
// counted and the run continues; nothing in a run is retried.
package check

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
	"github.com/rentcheck/rentcheck-backend/internal/domain/schedule"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/storage"
)

// PropertiesDueToday returns properties whose rent was due yesterday,
// i.e. the ones to check today. Only properties of bank-connected
// users are considered; everyone else is excluded upstream and logged
// here as a count.
func (s *Scheduler) PropertiesDueToday(today time.Time) ([]*rental.Property, error) {
	yesterday := today.AddDate(0, 0, -1)
	yesterdayWeekday := schedule.WeekdayName(yesterday)

	all, err := s.repo.GetPropertiesForBankConnectedUsers()
	if err != nil {
		return nil, err
	}

	var due []*rental.Property
	for _, p := range all {
		if schedule.IsCheckDay(p, yesterday, yesterdayWeekday) {
			due = append(due, p)
		}
	}

	s.logger.Info("Collected properties due for check",
		"candidates", len(all),
		"due", len(due),
		"due_date", yesterday.Format("2006-01-02"),
	)
	return due, nil
}

// RunDailyCheck executes one daily check across all due properties and
// returns the aggregated summary. Per-property failures are isolated:
// they are counted as failed checks and the loop continues.
func (s *Scheduler) RunDailyCheck(ctx context.Context) (*RunSummary, error) {
	today := s.now()
	yesterday := today.AddDate(0, 0, -1)

	summary := &RunSummary{RunID: uuid.NewString()}

	s.logger.Info("Starting daily rent check", "run_id", summary.RunID)

	if err := s.repo.StartCheckRun(summary.RunID, today); err != nil {
		// Tracking failure shouldn't block the check itself
		s.logger.Warn("Failed to record check run start", "error", err)
	}

	due, err := s.PropertiesDueToday(today)
	if err != nil {
		return nil, err
	}

	if len(due) == 0 {
		s.logger.Info("No properties due for checking today")
		s.completeRun(summary)
		return summary, nil
	}

	for _, p := range due {
		detail := s.checkProperty(ctx, p, yesterday)

		summary.PropertiesChecked++
		summary.Details = append(summary.Details, detail)

		if detail.Success {
			summary.SuccessfulChecks++
			summary.APICallsUsed += detail.APICallsUsed
			if detail.NotificationSent {
				summary.NotificationsSent++
			}
		} else {
			summary.FailedChecks++
		}
	}

	summary.TotalCost = float64(summary.APICallsUsed) * s.gateway.CostPerAPICall

	s.logger.Info("Daily rent check completed",
		"run_id", summary.RunID,
		"properties_checked", summary.PropertiesChecked,
		"api_calls_used", summary.APICallsUsed,
		"notifications_sent", summary.NotificationsSent,
		"failed_checks", summary.FailedChecks,
		"total_cost", summary.TotalCost,
	)

	s.completeRun(summary)
	return summary, nil
}

// checkProperty fetches the rent-due window for one property, runs
// payment matching, and notifies if nothing matched.
func (s *Scheduler) checkProperty(ctx context.Context, p *rental.Property, dueDate time.Time) PropertyCheckDetail {
	detail := PropertyCheckDetail{PropertyID: p.ID}

	token := ""
	if p.User != nil {
		token = p.User.AkahuAccessToken
	}

	result := s.gateway.FetchRentDueTransactions(ctx, token, p.ID, dueDate)
	if !result.Success {
		detail.Error = result.Error
		return detail
	}

	detail.Success = true
	detail.TransactionsFetched = result.TransactionsFetched
	detail.TransactionsStored = result.TransactionsStored
	detail.APICallsUsed = result.APICallsUsed

	var matched []*rental.Transaction
	for _, raw := range result.Transactions {
		score := s.matcher.Score(math.Abs(raw.Amount), raw.Description, p)
		if !score.Matched {
			continue
		}

		s.logger.Info("Rent payment detected",
			"property_id", p.ID,
			"amount", raw.Amount,
			"confidence", score.Confidence,
			"keyword_match", score.KeywordMatch,
			"nickname_match", score.NicknameMatch,
		)

		if err := s.repo.MarkTransactionMatchedByExternalID(raw.ID, score.Confidence); err != nil {
			s.logger.Warn("Failed to mark transaction matched", "external_id", raw.ID, "error", err)
		}

		date, _ := raw.ParseDate()
		matched = append(matched, &rental.Transaction{
			PropertyID:  p.ID,
			Date:        date,
			Amount:      math.Abs(raw.Amount),
			Description: raw.Description,
			Matched:     true,
			ExternalID:  raw.ID,
			Confidence:  score.Confidence,
		})
	}

	detail.RentPaymentsDetected = len(matched)

	if len(matched) == 0 {
		s.notifyOverdue(ctx, p, dueDate)
		detail.NotificationSent = true
	}

	return detail
}

// notifyOverdue emits a rent-overdue notification. Notifier failures
// are logged only; they never fail the property check.
func (s *Scheduler) notifyOverdue(ctx context.Context, p *rental.Property, dueDate time.Time) {
	if s.notifier == nil || p.User == nil {
		return
	}

	result := &rental.CheckResult{
		PropertyID:     p.ID,
		PropertyName:   p.Name,
		ExpectedDate:   dueDate,
		RentReceived:   false,
		ExpectedAmount: p.RentAmount,
		DaysOverdue:    1,
	}

	if err := s.notifier.NotifyRentOverdue(ctx, p.User, result); err != nil {
		s.logger.Error("Failed to send overdue notification", "property_id", p.ID, "error", err)
	}
}

// completeRun persists the run outcome; failures are logged only.
func (s *Scheduler) completeRun(summary *RunSummary) {
	err := s.repo.CompleteCheckRun(summary.RunID, storage.CheckRunResult{
		PropertiesChecked: summary.PropertiesChecked,
		APICallsUsed:      summary.APICallsUsed,
		NotificationsSent: summary.NotificationsSent,
		SuccessfulChecks:  summary.SuccessfulChecks,
		FailedChecks:      summary.FailedChecks,
		TotalCost:         summary.TotalCost,
	})
	if err != nil {
		s.logger.Warn("Failed to record check run completion", "run_id", summary.RunID, "error", err)
	}
}
