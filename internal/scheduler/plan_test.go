package scheduler

import (
	"testing"
	"time"

	"github.com/lromero/appointment-assistant/internal/model"
)

func TestPlanRemindersTimes(t *testing.T) {
	loc, err := time.LoadLocation("America/Lima")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, loc)

	plan := PlanReminders(start, loc)
	if len(plan) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(plan))
	}

	dayBefore := plan[0]
	if dayBefore.Kind != model.ReminderDayBefore {
		t.Fatalf("expected day_before first, got %s", dayBefore.Kind)
	}
	wantDay := time.Date(2026, 9, 9, 9, 0, 0, 0, loc)
	if !dayBefore.DueAt.Equal(wantDay) {
		t.Fatalf("day_before due at %s, want %s", dayBefore.DueAt, wantDay)
	}
	if dayBefore.DueAt.Location() != time.UTC {
		t.Fatalf("due times must be stored UTC, got %s", dayBefore.DueAt.Location())
	}

	oneHour := plan[1]
	if oneHour.Kind != model.ReminderOneHour {
		t.Fatalf("expected one_hour second, got %s", oneHour.Kind)
	}
	if !oneHour.DueAt.Equal(start.Add(-time.Hour)) {
		t.Fatalf("one_hour due at %s, want %s", oneHour.DueAt, start.Add(-time.Hour))
	}
}

func TestPlanRemindersNilLocation(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	plan := PlanReminders(start, nil)
	want := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)
	if !plan[0].DueAt.Equal(want) {
		t.Fatalf("day_before due at %s, want %s", plan[0].DueAt, want)
	}
}
