package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lromero/appointment-assistant/internal/model"
)

// ReminderRepo stores pending reminder work items.
type ReminderRepo struct{ DB *sql.DB }

func NewReminderRepo(db *sql.DB) *ReminderRepo { return &ReminderRepo{DB: db} }

// Replace drops the chat's unsent reminders and inserts the new plan.  Used
// on schedule and reschedule so stale reminders never fire.
func (r *ReminderRepo) Replace(ctx context.Context, chatID int64, eventID uint64, plan []model.Reminder) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM reminders WHERE chat_id=? AND sent_at IS NULL", chatID); err != nil {
		return err
	}
	for _, p := range plan {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO reminders (chat_id, event_id, kind, due_at) VALUES (?,?,?,?)",
			chatID, eventID, p.Kind, p.DueAt.UTC()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeletePending removes the chat's unsent reminders (cancellation path).
func (r *ReminderRepo) DeletePending(ctx context.Context, chatID int64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM reminders WHERE chat_id=? AND sent_at IS NULL", chatID)
	return err
}

// DueBefore returns up to limit unsent reminders whose due time has passed.
func (r *ReminderRepo) DueBefore(ctx context.Context, t time.Time, limit int) ([]model.Reminder, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, chat_id, event_id, kind, due_at, sent_at
		 FROM reminders WHERE sent_at IS NULL AND due_at <= ?
		 ORDER BY due_at ASC LIMIT ?`,
		t.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		var m model.Reminder
		if err := rows.Scan(&m.ID, &m.ChatID, &m.EventID, &m.Kind, &m.DueAt, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkSent stamps a reminder as published so it is not picked up again.
func (r *ReminderRepo) MarkSent(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE reminders SET sent_at=? WHERE id=? AND sent_at IS NULL",
		time.Now().UTC(), id)
	return err
}

// List returns reminders for the admin view.  With pendingOnly set, only
// unsent rows are returned.
func (r *ReminderRepo) List(ctx context.Context, pendingOnly bool, limit int) ([]model.Reminder, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := "SELECT id, chat_id, event_id, kind, due_at, sent_at FROM reminders"
	if pendingOnly {
		q += " WHERE sent_at IS NULL"
	}
	q += " ORDER BY due_at ASC LIMIT ?"
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		var m model.Reminder
		if err := rows.Scan(&m.ID, &m.ChatID, &m.EventID, &m.Kind, &m.DueAt, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
