// Package scheduler plans reminder times for appointments and runs the
// dispatcher that publishes due reminders to the broker.
package scheduler

import (
	"time"

	"github.com/lromero/appointment-assistant/internal/model"
)

// PlanReminders returns the two reminders for an appointment starting at
// start: day_before at 09:00 local time on the previous day and one_hour at
// start minus one hour.  Due times are returned in UTC for storage.
// Reminders that would already be in the past are planned anyway; the
// dispatcher delivers them on its next tick, which matches how the user
// expects a same-day booking to still get its one-hour warning when possible.
func PlanReminders(start time.Time, loc *time.Location) []model.Reminder {
	if loc == nil {
		loc = time.UTC
	}
	localStart := start.In(loc)

	dayBefore := time.Date(
		localStart.Year(), localStart.Month(), localStart.Day(),
		9, 0, 0, 0, loc,
	).AddDate(0, 0, -1)
	oneHour := localStart.Add(-time.Hour)

	return []model.Reminder{
		{Kind: model.ReminderDayBefore, DueAt: dayBefore.UTC()},
		{Kind: model.ReminderOneHour, DueAt: oneHour.UTC()},
	}
}
