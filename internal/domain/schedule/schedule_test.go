package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdayName(t *testing.T) {
	// 2025-06-02 is a Monday
	assert.Equal(t, "monday", WeekdayName(date(2025, time.June, 2)))
	assert.Equal(t, "friday", WeekdayName(date(2025, time.June, 6)))
	assert.Equal(t, "sunday", WeekdayName(date(2025, time.June, 8)))
}

func TestDueDayNumber(t *testing.T) {
	tests := []struct {
		name     string
		dueDay   string
		expected int
	}{
		{"monday", "monday", 1},
		{"friday mixed case", "Friday", 5},
		{"sunday", "sunday", 7},
		{"numeric", "15", 15},
		{"numeric with whitespace", " 28 ", 28},
		{"empty falls back", "", 1},
		{"garbage falls back", "someday", 1},
		{"zero falls back", "0", 1},
		{"negative falls back", "-3", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DueDayNumber(tt.dueDay))
		})
	}
}

func TestExpectedRentDate_Weekly(t *testing.T) {
	p := &rental.Property{DueDay: "friday", Frequency: rental.FrequencyWeekly}

	// Wednesday 2025-06-11: most recent Friday is 2025-06-06
	got := ExpectedRentDate(p, date(2025, time.June, 11))
	assert.Equal(t, date(2025, time.June, 6), got)
	assert.Equal(t, time.Friday, got.Weekday())

	// On the due day itself the expected date is that day
	got = ExpectedRentDate(p, date(2025, time.June, 13))
	assert.Equal(t, date(2025, time.June, 13), got)
}

func TestExpectedRentDate_WeeklyCrossesMonthBoundary(t *testing.T) {
	p := &rental.Property{DueDay: "saturday", Frequency: rental.FrequencyWeekly}

	// Tuesday 2025-07-01: most recent Saturday is 2025-06-28
	got := ExpectedRentDate(p, date(2025, time.July, 1))
	assert.Equal(t, date(2025, time.June, 28), got)
}

func TestExpectedRentDate_Monthly(t *testing.T) {
	p := &rental.Property{DueDay: "15", Frequency: rental.FrequencyMonthly}

	// After the due day: this month's 15th
	got := ExpectedRentDate(p, date(2025, time.June, 20))
	assert.Equal(t, date(2025, time.June, 15), got)

	// Before the due day: previous month's 15th
	got = ExpectedRentDate(p, date(2025, time.June, 10))
	assert.Equal(t, date(2025, time.May, 15), got)
}

func TestExpectedRentDate_MonthlyClampsTo28(t *testing.T) {
	p := &rental.Property{DueDay: "31", Frequency: rental.FrequencyMonthly}

	// Due day 31 always resolves to the 28th so February still works
	got := ExpectedRentDate(p, date(2025, time.July, 31))
	assert.Equal(t, date(2025, time.July, 28), got)

	// Mid-month ref rolls back to the previous month's 28th
	got = ExpectedRentDate(p, date(2025, time.June, 15))
	assert.Equal(t, date(2025, time.May, 28), got)
}

func TestExpectedRentDate_MonthlyJanuaryRollsBackYear(t *testing.T) {
	p := &rental.Property{DueDay: "15", Frequency: rental.FrequencyMonthly}

	got := ExpectedRentDate(p, date(2025, time.January, 10))
	assert.Equal(t, date(2024, time.December, 15), got)
}

func TestExpectedRentDate_Fortnightly(t *testing.T) {
	p := &rental.Property{DueDay: "monday", Frequency: rental.FrequencyFortnightly}

	// Wednesday 2025-06-11: walks back to Monday 2025-06-09
	got := ExpectedRentDate(p, date(2025, time.June, 11))
	assert.Equal(t, date(2025, time.June, 9), got)
}

func TestExpectedRentDate_UnknownFrequency(t *testing.T) {
	p := &rental.Property{DueDay: "monday", Frequency: rental.Frequency("quarterly")}

	ref := date(2025, time.June, 11)
	assert.Equal(t, ref, ExpectedRentDate(p, ref))
}

func TestIsCheckDay_Weekly(t *testing.T) {
	p := &rental.Property{DueDay: "friday", Frequency: rental.FrequencyWeekly}

	friday := date(2025, time.June, 6)
	thursday := date(2025, time.June, 5)

	assert.True(t, IsCheckDay(p, friday, WeekdayName(friday)))
	assert.False(t, IsCheckDay(p, thursday, WeekdayName(thursday)))
}

func TestIsCheckDay_FortnightlyUsesWeekParity(t *testing.T) {
	p := &rental.Property{DueDay: "friday", Frequency: rental.FrequencyFortnightly}

	// 2025-06-06 falls in ISO week 23 (odd), 2025-06-13 in week 24 (even)
	odd := date(2025, time.June, 6)
	even := date(2025, time.June, 13)

	assert.False(t, IsCheckDay(p, odd, WeekdayName(odd)))
	assert.True(t, IsCheckDay(p, even, WeekdayName(even)))

	// Wrong weekday never matches regardless of parity
	monday := date(2025, time.June, 9)
	assert.False(t, IsCheckDay(p, monday, WeekdayName(monday)))
}

func TestIsCheckDay_Monthly(t *testing.T) {
	p := &rental.Property{DueDay: "15", Frequency: rental.FrequencyMonthly}

	assert.True(t, IsCheckDay(p, date(2025, time.June, 15), "sunday"))
	assert.False(t, IsCheckDay(p, date(2025, time.June, 14), "saturday"))
}

func TestIsCheckDay_MonthlyNonNumericDueDayDefaultsToFirst(t *testing.T) {
	p := &rental.Property{DueDay: "friday", Frequency: rental.FrequencyMonthly}

	assert.True(t, IsCheckDay(p, date(2025, time.June, 1), "sunday"))
	assert.False(t, IsCheckDay(p, date(2025, time.June, 2), "monday"))
}

func TestIsCheckDay_WeeklyMatchesTwicePerFortnight(t *testing.T) {
	p := &rental.Property{DueDay: "monday", Frequency: rental.FrequencyWeekly}

	matches := 0
	start := date(2025, time.June, 2)
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		if IsCheckDay(p, d, WeekdayName(d)) {
			matches++
		}
	}
	assert.Equal(t, 2, matches)
}
