// Package rental holds the core domain types shared across the rent
// checking engine: landlords, properties, and imported bank transactions.
package rental

import "time"

// Frequency is how often rent is due for a property.
type Frequency string

const (
	FrequencyWeekly      Frequency = "weekly"
	FrequencyFortnightly Frequency = "fortnightly"
	FrequencyMonthly     Frequency = "monthly"
)

// User is a landlord account. Only the fields the checking engine needs
// are carried here; account management happens elsewhere.
type User struct {
	ID               int64
	Email            string
	AkahuUserID      string
	AkahuAccessToken string
	BankConnected    bool
	CreatedAt        time.Time
}

// HasBankConnection reports whether the user has a usable bank link.
func (u *User) HasBankConnection() bool {
	return u != nil && u.BankConnected && u.AkahuAccessToken != ""
}

// Property is a rental property with its expected payment pattern.
// DueDay is a weekday name ("monday".."sunday") for weekly/fortnightly
// properties and a day-of-month string ("1".."31") for monthly ones.
type Property struct {
	ID             int64
	UserID         int64
	Name           string
	Address        string
	RentAmount     float64
	DueDay         string
	Frequency      Frequency
	Keyword        string
	TenantNickname string
	Balance        float64
	CreatedAt      time.Time

	// User is attached when properties are loaded for bank-connected
	// users, so the scheduler has the access token at hand.
	User *User
}

// Transaction is an imported bank transaction. Amounts are always
// positive: only credits are imported, stored as absolute values.
// ExternalID, when present, is unique across all transactions and is
// what makes re-ingesting the same provider response idempotent.
type Transaction struct {
	ID          int64
	PropertyID  int64
	Date        time.Time
	Amount      float64
	Description string
	Matched     bool
	ExternalID  string
	Confidence  float64
	RawPayload  []byte
	CreatedAt   time.Time
}

// CheckResult is the outcome of checking one property for one expected
// rent date. It is ephemeral: produced per check, consumed by
// notification and reporting code, never persisted.
type CheckResult struct {
	PropertyID          int64
	PropertyName        string
	ExpectedDate        time.Time
	RentReceived        bool
	MatchedTransactions []*Transaction
	ExpectedAmount      float64
	DaysOverdue         int
}
