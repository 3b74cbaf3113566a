package storage

import (
	"time"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
)

// Repository defines the complete storage interface. It lets tests run
// against the in-memory mock and keeps SQLite swappable.
type Repository interface {
	PropertyStore
	TransactionStore
	NotificationStore
	CheckRunStore
	Close() error
}

// PropertyStore provides read access to users and properties. The
// checking engine never creates or deletes these; the save methods
// exist for seeding and tests.
type PropertyStore interface {
	// GetPropertiesForBankConnectedUsers returns every property whose
	// owner has a stored bank access token, with User attached.
	GetPropertiesForBankConnectedUsers() ([]*rental.Property, error)

	// GetPropertyByID returns a property or nil if not found.
	GetPropertyByID(id int64) (*rental.Property, error)

	// GetPropertiesByUserID returns a user's properties ordered by name.
	GetPropertiesByUserID(userID int64) ([]*rental.Property, error)

	// GetUserByID returns a user or nil if not found.
	GetUserByID(id int64) (*rental.User, error)

	// SaveUser inserts a user and sets its ID.
	SaveUser(u *rental.User) error

	// SaveProperty inserts a property and sets its ID.
	SaveProperty(p *rental.Property) error
}

// TransactionStore persists imported bank transactions.
type TransactionStore interface {
	// CreateTransaction inserts a transaction and sets its ID. When the
	// transaction carries an external id that already exists, nothing is
	// inserted and (nil, nil) is returned: duplicate ingest is not an
	// error.
	CreateTransaction(t *rental.Transaction) (*rental.Transaction, error)

	// GetTransactionsByDateRange returns a property's transactions with
	// start <= date <= end.
	GetTransactionsByDateRange(propertyID int64, start, end time.Time) ([]*rental.Transaction, error)

	// MarkTransactionMatched flags a stored transaction as matched.
	MarkTransactionMatched(id int64) error

	// MarkTransactionMatchedByExternalID flags the transaction with the
	// given external id as matched and records its confidence score.
	// Unknown ids are a no-op.
	MarkTransactionMatchedByExternalID(externalID string, confidence float64) error
}

// NotificationStore records emitted notification events.
type NotificationStore interface {
	LogNotification(n *NotificationEvent) error
	ListNotifications(userID int64, limit int) ([]*NotificationEvent, error)
}

// CheckRunStore tracks daily check runs for auditing and cost review.
type CheckRunStore interface {
	// StartCheckRun records the start of a run identified by runID.
	StartCheckRun(runID string, startedAt time.Time) error

	// CompleteCheckRun records the outcome of a run.
	CompleteCheckRun(runID string, result CheckRunResult) error

	// ListCheckRuns returns recent runs, newest first.
	ListCheckRuns(limit int) ([]*CheckRun, error)
}
