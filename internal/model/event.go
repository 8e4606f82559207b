package model

import "time"

// Event is the single active appointment held for a chat.  The chat_id column
// carries a UNIQUE constraint: scheduling while an appointment exists replaces
// it, which is also what the conversational flow promises the user.
//
// Fields:
//
//	ID        – primary key identifier.
//	ChatID    – owning Telegram chat (unique).
//	Summary   – appointment title shown in confirmations and reminders.
//	StartAt   – start time, stored UTC.
//	EndAt     – end time, stored UTC.
//	Attendee  – optional attendee email.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Event struct {
	ID        uint64    // events.id
	ChatID    int64     // events.chat_id
	Summary   string    // events.summary
	StartAt   time.Time // events.start_at
	EndAt     time.Time // events.end_at
	Attendee  *string   // events.attendee (nullable)
	CreatedAt time.Time // events.created_at
	UpdatedAt time.Time // events.updated_at
}

// DurationMinutes derives the appointment length from the stored interval.
func (e Event) DurationMinutes() int {
	return int(e.EndAt.Sub(e.StartAt) / time.Minute)
}
