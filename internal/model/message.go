package model

// Message is one line of a chat transcript.  Transcripts are capped at the
// most recent 50 messages per chat; older rows are pruned on insert.
//
// Fields:
//
//	ID     – primary key identifier.
//	ChatID – Telegram chat the message belongs to.
//	Role   – who said it ("user" or "assistant").
//	Text   – message text.
//	TS     – Telegram message timestamp (Unix seconds).
type Message struct {
	ID     uint64 // messages.id
	ChatID int64  // messages.chat_id
	Role   string // messages.role
	Text   string // messages.text
	TS     int64  // messages.ts
}
