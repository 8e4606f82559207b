package model

import "time"

// Reminder kinds.  day_before fires at 09:00 local time the day before the
// appointment; one_hour fires sixty minutes before it starts.
const (
	ReminderDayBefore = "day_before"
	ReminderOneHour   = "one_hour"
)

// Reminder is a pending notification work item.  The dispatcher polls for
// rows whose due_at has passed and sent_at is NULL, publishes them to the
// broker and marks them sent.
//
// Fields:
//
//	ID      – primary key identifier.
//	ChatID  – Telegram chat to notify.
//	EventID – appointment the reminder belongs to.
//	Kind    – day_before or one_hour.
//	DueAt   – delivery time, stored UTC.
//	SentAt  – set once published (nullable).
type Reminder struct {
	ID      uint64     // reminders.id
	ChatID  int64      // reminders.chat_id
	EventID uint64     // reminders.event_id
	Kind    string     // reminders.kind
	DueAt   time.Time  // reminders.due_at
	SentAt  *time.Time // reminders.sent_at (nullable)
}
