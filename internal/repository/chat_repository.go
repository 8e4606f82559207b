package repository

import (
	"context"
	"database/sql"

	"github.com/lromero/appointment-assistant/internal/model"
)

// transcriptKeep is how many recent messages are retained per chat.
const transcriptKeep = 50

// ChatRepo stores chat transcripts.
type ChatRepo struct{ DB *sql.DB }

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{DB: db} }

// AppendMessage inserts one transcript line and prunes the chat's history so
// that only the most recent entries remain.
func (r *ChatRepo) AppendMessage(ctx context.Context, chatID int64, role, text string, ts int64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (chat_id, role, text, ts) VALUES (?,?,?,?)",
		chatID, role, text, ts)
	if err != nil {
		return err
	}
	// MySQL cannot reference the target table in a subquery of the same
	// DELETE, hence the derived-table wrapper.
	_, err = r.DB.ExecContext(ctx,
		`DELETE FROM messages WHERE chat_id=? AND id NOT IN (
			SELECT id FROM (
				SELECT id FROM messages WHERE chat_id=? ORDER BY id DESC LIMIT ?
			) keep
		)`,
		chatID, chatID, transcriptKeep)
	return err
}

// RecentMessages returns up to limit transcript lines, oldest first.
func (r *ChatRepo) RecentMessages(ctx context.Context, chatID int64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > transcriptKeep {
		limit = transcriptKeep
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, chat_id, role, text, ts FROM (
			SELECT id, chat_id, role, text, ts FROM messages WHERE chat_id=? ORDER BY id DESC LIMIT ?
		) recent ORDER BY id ASC`,
		chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Text, &m.TS); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
