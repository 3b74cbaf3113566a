package check

import (
	"sort"
	"time"

	"github.com/rentcheck/rentcheck-backend/internal/domain/schedule"
)

// DefaultScheduleHorizonDays is how far ahead ScheduleUpcoming projects
// when no horizon is given.
const DefaultScheduleHorizonDays = 30

// ScheduleUpcoming projects which properties will be checked on each of
// the next horizonDays days, sorted by check date ascending. It is
// side-effect-free: no provider calls, no persistence. Used for cost
// projection and display.
func (s *Scheduler) ScheduleUpcoming(horizonDays int) ([]ScheduleEntry, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultScheduleHorizonDays
	}

	properties, err := s.repo.GetPropertiesForBankConnectedUsers()
	if err != nil {
		return nil, err
	}

	today := s.now()

	var entries []ScheduleEntry
	for daysAhead := 1; daysAhead <= horizonDays; daysAhead++ {
		checkDate := today.AddDate(0, 0, daysAhead)
		dueDate := checkDate.AddDate(0, 0, -1)
		dueWeekday := schedule.WeekdayName(dueDate)

		for _, p := range properties {
			if !schedule.IsCheckDay(p, dueDate, dueWeekday) {
				continue
			}

			entry := ScheduleEntry{
				CheckDate:       truncateDay(checkDate),
				PropertyID:      p.ID,
				PropertyAddress: p.Address,
				RentAmount:      p.RentAmount,
				Frequency:       p.Frequency,
			}
			if p.User != nil {
				entry.UserEmail = p.User.Email
			}
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CheckDate.Before(entries[j].CheckDate)
	})

	s.logger.Info("Generated upcoming check schedule",
		"horizon_days", horizonDays,
		"entries", len(entries),
	)
	return entries, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
