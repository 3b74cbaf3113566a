// Package notify delivers rent-overdue alerts. Email delivery is
// handled by an external collaborator; this implementation records each
// alert as a notification event so downstream senders and the UI can
// pick it up.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/storage"
)

// LogNotifier writes overdue alerts to the notification log.
type LogNotifier struct {
	store  storage.NotificationStore
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by the notification store.
func NewLogNotifier(store storage.NotificationStore, logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{store: store, logger: logger}
}

// NotifyRentOverdue records a rent-overdue event for the user and
// property. Callers treat this as fire-and-forget; a returned error is
// logged by the scheduler, never fatal to a run.
func (n *LogNotifier) NotifyRentOverdue(_ context.Context, user *rental.User, result *rental.CheckResult) error {
	message := fmt.Sprintf("No rent payment of $%.2f detected for %s (expected %s, %d day(s) overdue)",
		result.ExpectedAmount,
		result.PropertyName,
		result.ExpectedDate.Format("2006-01-02"),
		result.DaysOverdue,
	)

	event := &storage.NotificationEvent{
		UserID:     user.ID,
		PropertyID: result.PropertyID,
		Type:       storage.NotificationTypeRentOverdue,
		Message:    message,
	}

	if err := n.store.LogNotification(event); err != nil {
		return fmt.Errorf("failed to log notification: %w", err)
	}

	n.logger.Info("Rent overdue notification recorded",
		"user_id", user.ID,
		"property_id", result.PropertyID,
		"expected_amount", result.ExpectedAmount,
	)
	return nil
}
