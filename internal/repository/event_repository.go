package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lromero/appointment-assistant/internal/model"
)

// EventRepo stores the single active appointment per chat.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Upsert creates the chat's appointment or replaces an existing one.  The
// chat_id column is UNIQUE, so a second schedule overwrites the first.  It
// returns the row id of the stored event.
func (r *EventRepo) Upsert(ctx context.Context, ev model.Event) (uint64, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO events (chat_id, summary, start_at, end_at, attendee)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   summary=VALUES(summary), start_at=VALUES(start_at),
		   end_at=VALUES(end_at), attendee=VALUES(attendee)`,
		ev.ChatID, ev.Summary, ev.StartAt.UTC(), ev.EndAt.UTC(), ev.Attendee)
	if err != nil {
		return 0, err
	}
	// LastInsertId is unreliable for the update branch of an upsert, so the
	// id is read back explicitly.
	var id uint64
	err = r.DB.QueryRowContext(ctx,
		"SELECT id FROM events WHERE chat_id=? LIMIT 1", ev.ChatID).Scan(&id)
	return id, err
}

// GetByChat fetches the appointment stored for a chat.
func (r *EventRepo) GetByChat(ctx context.Context, chatID int64) (model.Event, error) {
	var ev model.Event
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, chat_id, summary, start_at, end_at, attendee, created_at, updated_at
		 FROM events WHERE chat_id=? LIMIT 1`, chatID).
		Scan(&ev.ID, &ev.ChatID, &ev.Summary, &ev.StartAt, &ev.EndAt, &ev.Attendee, &ev.CreatedAt, &ev.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrNotFound
	}
	return ev, err
}

// GetByID fetches an appointment by row id.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	var ev model.Event
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, chat_id, summary, start_at, end_at, attendee, created_at, updated_at
		 FROM events WHERE id=? LIMIT 1`, id).
		Scan(&ev.ID, &ev.ChatID, &ev.Summary, &ev.StartAt, &ev.EndAt, &ev.Attendee, &ev.CreatedAt, &ev.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrNotFound
	}
	return ev, err
}

// UpdateTimes moves an appointment to a new interval.
func (r *EventRepo) UpdateTimes(ctx context.Context, id uint64, start, end time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET start_at=?, end_at=? WHERE id=?",
		start.UTC(), end.UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByChat removes the chat's appointment, if any.
func (r *EventRepo) DeleteByChat(ctx context.Context, chatID int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE chat_id=?", chatID)
	return err
}
