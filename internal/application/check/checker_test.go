package check

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/storage"
)

func newTestChecker(repo *storage.MockRepository) *Checker {
	checker := NewChecker(repo, nil)
	checker.SetNow(func() time.Time { return testToday })
	return checker
}

func TestCheckRentForProperty_PaymentFound(t *testing.T) {
	repo := storage.NewMockRepository()
	property := seedWeeklyProperty(t, repo)

	// 430 is outside the strict sync tolerance but inside the stored
	// window checker's 10%
	_, err := repo.CreateTransaction(&rental.Transaction{
		PropertyID:  property.ID,
		Date:        time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
		Amount:      430.00,
		Description: "RENT123 transfer",
		ExternalID:  "txn_1",
	})
	require.NoError(t, err)

	checker := newTestChecker(repo)

	result, err := checker.CheckRentForProperty(property, testToday)
	require.NoError(t, err)

	assert.True(t, result.RentReceived)
	assert.Equal(t, time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), result.ExpectedDate)
	assert.Equal(t, 450.00, result.ExpectedAmount)
	require.Len(t, result.MatchedTransactions, 1)
	assert.True(t, result.MatchedTransactions[0].Matched)

	// The stored transaction is flagged too
	stored := repo.GetAllTransactions()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Matched)
}

func TestCheckRentForProperty_NoPayment(t *testing.T) {
	repo := storage.NewMockRepository()
	property := seedWeeklyProperty(t, repo)

	checker := newTestChecker(repo)

	result, err := checker.CheckRentForProperty(property, testToday)
	require.NoError(t, err)

	assert.False(t, result.RentReceived)
	assert.Empty(t, result.MatchedTransactions)
}

func TestCheckRentForProperty_WrongKeywordRejected(t *testing.T) {
	repo := storage.NewMockRepository()
	property := seedWeeklyProperty(t, repo)

	_, err := repo.CreateTransaction(&rental.Transaction{
		PropertyID:  property.ID,
		Date:        time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
		Amount:      450.00,
		Description: "Car repayment",
		ExternalID:  "txn_1",
	})
	require.NoError(t, err)

	checker := newTestChecker(repo)

	result, err := checker.CheckRentForProperty(property, testToday)
	require.NoError(t, err)
	assert.False(t, result.RentReceived)
}

func TestCheckRentForProperty_WindowIsPlusMinusOneDay(t *testing.T) {
	repo := storage.NewMockRepository()
	property := seedWeeklyProperty(t, repo)

	// Expected date is Friday June 6; June 4 is outside the window
	_, err := repo.CreateTransaction(&rental.Transaction{
		PropertyID:  property.ID,
		Date:        time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC),
		Amount:      450.00,
		Description: "RENT123 transfer",
		ExternalID:  "txn_early",
	})
	require.NoError(t, err)

	// June 5 is the earliest day inside it
	_, err = repo.CreateTransaction(&rental.Transaction{
		PropertyID:  property.ID,
		Date:        time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		Amount:      450.00,
		Description: "RENT123 transfer",
		ExternalID:  "txn_edge",
	})
	require.NoError(t, err)

	checker := newTestChecker(repo)

	result, err := checker.CheckRentForProperty(property, testToday)
	require.NoError(t, err)
	require.Len(t, result.MatchedTransactions, 1)
	assert.Equal(t, "txn_edge", result.MatchedTransactions[0].ExternalID)
}

func TestCheckAllForUser(t *testing.T) {
	repo := storage.NewMockRepository()
	property := seedWeeklyProperty(t, repo)

	second := &rental.Property{
		UserID:     property.UserID,
		Name:       "Second Flat",
		RentAmount: 600.00,
		DueDay:     "friday",
		Frequency:  rental.FrequencyWeekly,
	}
	require.NoError(t, repo.SaveProperty(second))

	checker := newTestChecker(repo)

	results, err := checker.CheckAllForUser(property.UserID, testToday)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestOverdueForUser(t *testing.T) {
	repo := storage.NewMockRepository()
	property := seedWeeklyProperty(t, repo)

	checker := newTestChecker(repo)

	// Nothing was paid: the property shows up as overdue
	overdue, err := checker.OverdueForUser(property.UserID, 1)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, property.ID, overdue[0].PropertyID)
	assert.Equal(t, 1, overdue[0].DaysOverdue)
	assert.False(t, overdue[0].RentReceived)
}

func TestOverdueForUser_PaidRentExcluded(t *testing.T) {
	repo := storage.NewMockRepository()
	property := seedWeeklyProperty(t, repo)

	_, err := repo.CreateTransaction(&rental.Transaction{
		PropertyID:  property.ID,
		Date:        time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
		Amount:      450.00,
		Description: "RENT123 transfer",
		ExternalID:  "txn_1",
	})
	require.NoError(t, err)

	checker := newTestChecker(repo)

	overdue, err := checker.OverdueForUser(property.UserID, 1)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}
