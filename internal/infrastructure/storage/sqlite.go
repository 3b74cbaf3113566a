package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
)

// Storage provides SQLite database access for the rent checking engine.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with a SQLite database.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveUser inserts a user and sets its ID.
func (s *Storage) SaveUser(u *rental.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(`
	INSERT INTO users (email, akahu_user_id, akahu_access_token, bank_connected, created_at)
	VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.AkahuUserID, u.AkahuAccessToken, u.BankConnected, u.CreatedAt,
	)
	if err != nil {
		return err
	}

	u.ID, err = res.LastInsertId()
	return err
}

// GetUserByID returns a user or nil if not found.
func (s *Storage) GetUserByID(id int64) (*rental.User, error) {
	u := &rental.User{}
	err := s.db.QueryRow(`
	SELECT id, email, COALESCE(akahu_user_id, ''), COALESCE(akahu_access_token, ''), bank_connected, created_at
	FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.AkahuUserID, &u.AkahuAccessToken, &u.BankConnected, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SaveProperty inserts a property and sets its ID.
func (s *Storage) SaveProperty(p *rental.Property) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(`
	INSERT INTO properties (user_id, name, address, rent_amount, due_day, frequency, keyword, tenant_nickname, balance, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Name, p.Address, p.RentAmount, p.DueDay, string(p.Frequency),
		p.Keyword, p.TenantNickname, p.Balance, p.CreatedAt,
	)
	if err != nil {
		return err
	}

	p.ID, err = res.LastInsertId()
	return err
}

const propertyColumns = `
	p.id, p.user_id, p.name, COALESCE(p.address, ''), p.rent_amount, p.due_day,
	p.frequency, COALESCE(p.keyword, ''), COALESCE(p.tenant_nickname, ''), p.balance, p.created_at`

func scanProperty(row interface{ Scan(...any) error }) (*rental.Property, error) {
	p := &rental.Property{}
	var frequency string
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Address, &p.RentAmount, &p.DueDay,
		&frequency, &p.Keyword, &p.TenantNickname, &p.Balance, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Frequency = rental.Frequency(frequency)
	return p, nil
}

// GetPropertyByID returns a property or nil if not found.
func (s *Storage) GetPropertyByID(id int64) (*rental.Property, error) {
	row := s.db.QueryRow(`SELECT `+propertyColumns+` FROM properties p WHERE p.id = ?`, id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetPropertiesByUserID returns a user's properties ordered by name.
func (s *Storage) GetPropertiesByUserID(userID int64) ([]*rental.Property, error) {
	rows, err := s.db.Query(`SELECT `+propertyColumns+` FROM properties p WHERE p.user_id = ? ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*rental.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// GetPropertiesForBankConnectedUsers returns every property whose owner
// has a stored bank access token, with the owning user attached.
func (s *Storage) GetPropertiesForBankConnectedUsers() ([]*rental.Property, error) {
	rows, err := s.db.Query(`
	SELECT ` + propertyColumns + `,
		u.id, u.email, COALESCE(u.akahu_user_id, ''), COALESCE(u.akahu_access_token, ''), u.bank_connected, u.created_at
	FROM properties p
	JOIN users u ON u.id = p.user_id
	WHERE u.bank_connected = 1 AND COALESCE(u.akahu_access_token, '') != ''
	ORDER BY u.id, p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*rental.Property
	for rows.Next() {
		p := &rental.Property{}
		u := &rental.User{}
		var frequency string
		err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Address, &p.RentAmount, &p.DueDay,
			&frequency, &p.Keyword, &p.TenantNickname, &p.Balance, &p.CreatedAt,
			&u.ID, &u.Email, &u.AkahuUserID, &u.AkahuAccessToken, &u.BankConnected, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		p.Frequency = rental.Frequency(frequency)
		p.User = u
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// CreateTransaction inserts a transaction. Duplicate external ids are
// silently skipped: the insert is a no-op and (nil, nil) is returned,
// which is what makes re-ingesting the same provider window idempotent.
func (s *Storage) CreateTransaction(t *rental.Transaction) (*rental.Transaction, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	var externalID sql.NullString
	if t.ExternalID != "" {
		externalID = sql.NullString{String: t.ExternalID, Valid: true}
	}

	res, err := s.db.Exec(`
	INSERT OR IGNORE INTO transactions (property_id, date, amount, description, matched, external_id, confidence, raw_payload, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.PropertyID, t.Date, t.Amount, t.Description, t.Matched,
		externalID, t.Confidence, t.RawPayload, t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Duplicate external id
		return nil, nil
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTransactionsByDateRange returns a property's transactions with
// start <= date <= end, oldest first.
func (s *Storage) GetTransactionsByDateRange(propertyID int64, start, end time.Time) ([]*rental.Transaction, error) {
	rows, err := s.db.Query(`
	SELECT id, property_id, date, amount, COALESCE(description, ''), matched,
		COALESCE(external_id, ''), COALESCE(confidence, 0), raw_payload, created_at
	FROM transactions
	WHERE property_id = ? AND date >= ? AND date <= ?
	ORDER BY date`, propertyID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*rental.Transaction
	for rows.Next() {
		t := &rental.Transaction{}
		err := rows.Scan(&t.ID, &t.PropertyID, &t.Date, &t.Amount, &t.Description,
			&t.Matched, &t.ExternalID, &t.Confidence, &t.RawPayload, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// MarkTransactionMatched flags a stored transaction as matched.
func (s *Storage) MarkTransactionMatched(id int64) error {
	_, err := s.db.Exec(`UPDATE transactions SET matched = 1 WHERE id = ?`, id)
	return err
}

// MarkTransactionMatchedByExternalID flags the transaction with the
// given external id as matched and records its confidence score.
func (s *Storage) MarkTransactionMatchedByExternalID(externalID string, confidence float64) error {
	if externalID == "" {
		return nil
	}
	_, err := s.db.Exec(`UPDATE transactions SET matched = 1, confidence = ? WHERE external_id = ?`,
		confidence, externalID)
	return err
}

// LogNotification records a notification event.
func (s *Storage) LogNotification(n *NotificationEvent) error {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}

	res, err := s.db.Exec(`
	INSERT INTO notification_log (user_id, property_id, notification_type, message, sent_at)
	VALUES (?, ?, ?, ?, ?)`,
		n.UserID, n.PropertyID, n.Type, n.Message, n.SentAt,
	)
	if err != nil {
		return err
	}

	n.ID, err = res.LastInsertId()
	return err
}

// ListNotifications returns a user's notifications, newest first.
func (s *Storage) ListNotifications(userID int64, limit int) ([]*NotificationEvent, error) {
	if limit == 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
	SELECT id, user_id, property_id, notification_type, COALESCE(message, ''), sent_at
	FROM notification_log
	WHERE user_id = ?
	ORDER BY sent_at DESC
	LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*NotificationEvent
	for rows.Next() {
		n := &NotificationEvent{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.PropertyID, &n.Type, &n.Message, &n.SentAt); err != nil {
			return nil, err
		}
		events = append(events, n)
	}
	return events, rows.Err()
}

// StartCheckRun records the start of a daily check run.
func (s *Storage) StartCheckRun(runID string, startedAt time.Time) error {
	_, err := s.db.Exec(`
	INSERT INTO check_runs (run_id, started_at, status) VALUES (?, ?, 'running')`,
		runID, startedAt,
	)
	return err
}

// CompleteCheckRun records the outcome of a daily check run.
func (s *Storage) CompleteCheckRun(runID string, result CheckRunResult) error {
	_, err := s.db.Exec(`
	UPDATE check_runs
	SET completed_at = ?, status = 'completed',
		properties_checked = ?, api_calls_used = ?, notifications_sent = ?,
		successful_checks = ?, failed_checks = ?, total_cost = ?
	WHERE run_id = ?`,
		time.Now(), result.PropertiesChecked, result.APICallsUsed, result.NotificationsSent,
		result.SuccessfulChecks, result.FailedChecks, result.TotalCost, runID,
	)
	return err
}

// ListCheckRuns returns recent check runs, newest first.
func (s *Storage) ListCheckRuns(limit int) ([]*CheckRun, error) {
	if limit == 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
	SELECT id, run_id, started_at, COALESCE(completed_at, started_at), status,
		properties_checked, api_calls_used, notifications_sent,
		successful_checks, failed_checks, total_cost
	FROM check_runs
	ORDER BY started_at DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*CheckRun
	for rows.Next() {
		r := &CheckRun{}
		err := rows.Scan(&r.ID, &r.RunID, &r.StartedAt, &r.CompletedAt, &r.Status,
			&r.PropertiesChecked, &r.APICallsUsed, &r.NotificationsSent,
			&r.SuccessfulChecks, &r.FailedChecks, &r.TotalCost)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
