// Package recurrence advances maintenance due dates by calendar arithmetic.
package recurrence

import (
	"time"

	"factory-maintenance-backend/internal/model"
)

// DefaultIntervalDays is used for Custom schedules without a positive interval.
const DefaultIntervalDays = 7

// NextDueDate returns the due date that follows ref under the schedule's recurrence rule.
// Arithmetic is done in ref's location so that a day is a calendar day across DST changes.
// An unknown rule returns ref unchanged.
func NextDueDate(s model.MaintenanceSchedule, ref time.Time) time.Time {
	switch s.Recurrence {
	case model.RecurrenceDaily:
		return ref.AddDate(0, 0, 1)
	case model.RecurrenceWeekly:
		return ref.AddDate(0, 0, 7)
	case model.RecurrenceMonthly:
		return addMonthsClamped(ref, 1)
	case model.RecurrenceCustom:
		return ref.AddDate(0, 0, IntervalDays(s))
	default:
		return ref
	}
}

// IntervalDays is the day step a Custom schedule advances by.
func IntervalDays(s model.MaintenanceSchedule) int {
	if s.IntervalDays != nil && *s.IntervalDays > 0 {
		return *s.IntervalDays
	}
	return DefaultIntervalDays
}

// addMonthsClamped moves t forward by n months, keeping the day of month when it exists
// and using the last day of the target month otherwise (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
