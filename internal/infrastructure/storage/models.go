package storage

import "time"

// NotificationEvent is one logged notification (e.g. an overdue rent
// alert) for a user and property.
type NotificationEvent struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}

// Notification types written by the checking engine.
const (
	NotificationTypeRentOverdue = "rent_overdue"
)

// CheckRunResult holds the counters recorded when a run completes.
type CheckRunResult struct {
	PropertiesChecked int     `json:"properties_checked"`
	APICallsUsed      int     `json:"api_calls_used"`
	NotificationsSent int     `json:"notifications_sent"`
	SuccessfulChecks  int     `json:"successful_checks"`
	FailedChecks      int     `json:"failed_checks"`
	TotalCost         float64 `json:"total_cost"`
}

// CheckRun is a persisted daily check run.
type CheckRun struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	Status      string    `json:"status"`
	CheckRunResult
}
