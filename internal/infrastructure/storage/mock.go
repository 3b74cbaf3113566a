package storage

import (
	"sort"
	"time"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
)

// MockRepository is an in-memory implementation of Repository for
// testing. It stores all data in maps and slices, making tests fast
// and isolated.
type MockRepository struct {
	users         map[int64]*rental.User
	properties    map[int64]*rental.Property
	transactions  map[int64]*rental.Transaction
	byExternalID  map[string]int64
	notifications []*NotificationEvent
	checkRuns     map[string]*CheckRun
	nextUserID    int64
	nextPropID    int64
	nextTxnID     int64
	nextNotifID   int64
	nextRunRowID  int64

	// Hooks for test assertions
	CreateTransactionCalled bool
	LogNotificationCalled   bool
	StartCheckRunCalled     bool
	CompleteCheckRunCalled  bool
	LastLoggedNotification  *NotificationEvent

	// Error injection for testing error paths
	CreateTransactionErr error
	GetPropertiesErr     error
	LogNotificationErr   error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:        make(map[int64]*rental.User),
		properties:   make(map[int64]*rental.Property),
		transactions: make(map[int64]*rental.Transaction),
		byExternalID: make(map[string]int64),
		checkRuns:    make(map[string]*CheckRun),
		nextUserID:   1,
		nextPropID:   1,
		nextTxnID:    1,
		nextNotifID:  1,
		nextRunRowID: 1,
	}
}

// Close does nothing for mock.
func (m *MockRepository) Close() error {
	return nil
}

// SaveUser stores a user in the in-memory map.
func (m *MockRepository) SaveUser(u *rental.User) error {
	if u.ID == 0 {
		u.ID = m.nextUserID
		m.nextUserID++
	}
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

// GetUserByID retrieves a user from the in-memory map.
func (m *MockRepository) GetUserByID(id int64) (*rental.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

// SaveProperty stores a property in the in-memory map.
func (m *MockRepository) SaveProperty(p *rental.Property) error {
	if p.ID == 0 {
		p.ID = m.nextPropID
		m.nextPropID++
	}
	copied := *p
	m.properties[p.ID] = &copied
	return nil
}

// GetPropertyByID retrieves a property from the in-memory map.
func (m *MockRepository) GetPropertyByID(id int64) (*rental.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

// GetPropertiesByUserID returns a user's properties sorted by name.
func (m *MockRepository) GetPropertiesByUserID(userID int64) ([]*rental.Property, error) {
	var result []*rental.Property
	for _, p := range m.properties {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetPropertiesForBankConnectedUsers returns properties of users with a
// stored access token, with User attached.
func (m *MockRepository) GetPropertiesForBankConnectedUsers() ([]*rental.Property, error) {
	if m.GetPropertiesErr != nil {
		return nil, m.GetPropertiesErr
	}

	var result []*rental.Property
	for _, p := range m.properties {
		u, ok := m.users[p.UserID]
		if !ok || !u.HasBankConnection() {
			continue
		}
		copied := *p
		copied.User = u
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CreateTransaction stores a transaction, skipping duplicate external ids.
func (m *MockRepository) CreateTransaction(t *rental.Transaction) (*rental.Transaction, error) {
	m.CreateTransactionCalled = true
	if m.CreateTransactionErr != nil {
		return nil, m.CreateTransactionErr
	}

	if t.ExternalID != "" {
		if _, exists := m.byExternalID[t.ExternalID]; exists {
			return nil, nil
		}
	}

	t.ID = m.nextTxnID
	m.nextTxnID++

	copied := *t
	m.transactions[t.ID] = &copied
	if t.ExternalID != "" {
		m.byExternalID[t.ExternalID] = t.ID
	}
	return t, nil
}

// GetTransactionsByDateRange returns a property's transactions with
// start <= date <= end, oldest first.
func (m *MockRepository) GetTransactionsByDateRange(propertyID int64, start, end time.Time) ([]*rental.Transaction, error) {
	var result []*rental.Transaction
	for _, t := range m.transactions {
		if t.PropertyID != propertyID {
			continue
		}
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// MarkTransactionMatched flags a transaction as matched.
func (m *MockRepository) MarkTransactionMatched(id int64) error {
	if t, ok := m.transactions[id]; ok {
		t.Matched = true
	}
	return nil
}

// MarkTransactionMatchedByExternalID flags a transaction as matched and
// records its confidence score.
func (m *MockRepository) MarkTransactionMatchedByExternalID(externalID string, confidence float64) error {
	id, ok := m.byExternalID[externalID]
	if !ok {
		return nil
	}
	t := m.transactions[id]
	t.Matched = true
	t.Confidence = confidence
	return nil
}

// LogNotification records a notification event.
func (m *MockRepository) LogNotification(n *NotificationEvent) error {
	m.LogNotificationCalled = true
	m.LastLoggedNotification = n
	if m.LogNotificationErr != nil {
		return m.LogNotificationErr
	}

	n.ID = m.nextNotifID
	m.nextNotifID++
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}

	copied := *n
	m.notifications = append(m.notifications, &copied)
	return nil
}

// ListNotifications returns a user's notifications, newest first.
func (m *MockRepository) ListNotifications(userID int64, limit int) ([]*NotificationEvent, error) {
	if limit == 0 {
		limit = 50
	}

	var result []*NotificationEvent
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].UserID == userID {
			result = append(result, m.notifications[i])
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

// StartCheckRun records the start of a run.
func (m *MockRepository) StartCheckRun(runID string, startedAt time.Time) error {
	m.StartCheckRunCalled = true

	m.checkRuns[runID] = &CheckRun{
		ID:        m.nextRunRowID,
		RunID:     runID,
		StartedAt: startedAt,
		Status:    "running",
	}
	m.nextRunRowID++
	return nil
}

// CompleteCheckRun records the outcome of a run.
func (m *MockRepository) CompleteCheckRun(runID string, result CheckRunResult) error {
	m.CompleteCheckRunCalled = true

	run, ok := m.checkRuns[runID]
	if !ok {
		return nil
	}
	run.CompletedAt = time.Now()
	run.Status = "completed"
	run.CheckRunResult = result
	return nil
}

// ListCheckRuns returns recorded runs, newest first.
func (m *MockRepository) ListCheckRuns(limit int) ([]*CheckRun, error) {
	if limit == 0 {
		limit = 20
	}

	var runs []*CheckRun
	for _, r := range m.checkRuns {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Helper methods for test setup

// GetAllTransactions returns all stored transactions (for assertions).
func (m *MockRepository) GetAllTransactions() []*rental.Transaction {
	result := make([]*rental.Transaction, 0, len(m.transactions))
	for _, t := range m.transactions {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// GetAllNotifications returns all logged notifications (for assertions).
func (m *MockRepository) GetAllNotifications() []*NotificationEvent {
	return m.notifications
}

// GetCheckRun returns a recorded run by its run id (for assertions).
func (m *MockRepository) GetCheckRun(runID string) *CheckRun {
	return m.checkRuns[runID]
}
