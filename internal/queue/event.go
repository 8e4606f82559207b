// Package queue defines message payloads exchanged over the message broker
// and the background consumer that delivers reminders.
package queue

// EventPayload is the appointment snapshot carried inside a reminder message.
// It is a snapshot rather than an id so consumers can notify without querying
// the primary database, and so external schedulers can post the same shape to
// the task callback endpoint.
type EventPayload struct {
	Summary string `json:"summary"`
	Start   string `json:"start"` // RFC 3339 in the service timezone
}

// ReminderDueEvent is published to the reminder.due queue when a reminder's
// time arrives.  Type is day_before or one_hour.
type ReminderDueEvent struct {
	ChatID int64        `json:"chat_id"`
	Type   string       `json:"type"`
	Event  EventPayload `json:"event"`
}
