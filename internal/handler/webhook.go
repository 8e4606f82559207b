package handler

import (
	"context"       // context with cancellation for DB and API calls
	"encoding/json" // raw field detection for voice/audio guard
	"errors"        // sentinel error checks
	"fmt"           // reply formatting
	"log"           // operational logging
	"net/http"      // HTTP status codes and primitives
	"regexp"        // command argument parsing
	"strconv"       // string-to-int conversion
	"strings"       // string manipulation utilities
	"time"          // timeouts and date handling

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/lromero/appointment-assistant/internal/config"     // app configuration
	"github.com/lromero/appointment-assistant/internal/mailer"     // email notifications
	"github.com/lromero/appointment-assistant/internal/model"      // persistence types
	"github.com/lromero/appointment-assistant/internal/nlu"        // free-text extraction
	"github.com/lromero/appointment-assistant/internal/repository" // DB repositories
	"github.com/lromero/appointment-assistant/internal/scheduler"  // reminder planning
	"github.com/lromero/appointment-assistant/internal/telegram"   // bot replies
)

const defaultTitle = "Appointment"
const defaultDurationMin = 30

var (
	scheduleCmdRE   = regexp.MustCompile(`^/schedule\s+(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2})\s+(\d+)[mM]\s+(.*)$`)
	rescheduleCmdRE = regexp.MustCompile(`^/reschedule\s+(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2})\s*(\d+)?[mM]?$`)
)

var cancelContextPhrases = []string{"never mind", "nevermind", "forget it", "don't worry about it"}
var scheduleKeywords = []string{"schedule", "book", "set up", "set-up", "setup", "arrange", "appointment"}
var rescheduleKeywords = []string{"reschedule", "move", "change", "update"}
var cancelKeywords = []string{"cancel", "call off", "drop"}

// WebhookHandler bundles dependencies for the Telegram webhook endpoint.
type WebhookHandler struct {
	Cfg       config.Config
	Chats     *repository.ChatRepo
	Events    *repository.EventRepo
	Reminders *repository.ReminderRepo
	Drafts    *repository.ContextStore
	Parser    *nlu.Parser
	Telegram  *telegram.Client
	Mailer    *mailer.Mailer
	Loc       *time.Location
	Now       func() time.Time // injectable clock
}

func NewWebhookHandler(cfg config.Config, chats *repository.ChatRepo, events *repository.EventRepo,
	reminders *repository.ReminderRepo, drafts *repository.ContextStore, parser *nlu.Parser,
	tg *telegram.Client, mail *mailer.Mailer, loc *time.Location) *WebhookHandler {
	return &WebhookHandler{
		Cfg: cfg, Chats: chats, Events: events, Reminders: reminders,
		Drafts: drafts, Parser: parser, Telegram: tg, Mailer: mail,
		Loc: loc, Now: time.Now,
	}
}

// ----- Telegram update DTOs -----

type tgChat struct {
	ID int64 `json:"id"`
}
type tgMessage struct {
	Chat  *tgChat         `json:"chat"`
	Date  int64           `json:"date"`
	Text  string          `json:"text"`
	Voice json.RawMessage `json:"voice"`
	Audio json.RawMessage `json:"audio"`
}
type tgUpdate struct {
	Message       *tgMessage `json:"message"`
	EditedMessage *tgMessage `json:"edited_message"`
}

// Handle processes one Telegram update.  Telegram retries deliveries that do
// not get a 2xx back, so everything after the secret check answers 200 "ok":
// internal failures are reported to the user conversationally and logged,
// never surfaced as a 5xx.
func (h *WebhookHandler) Handle(c echo.Context) error {
	if secret := h.Cfg.TelegramWebhookSecret; secret != "" {
		provided := c.Request().Header.Get("X-Telegram-Bot-Api-Secret-Token")
		if provided != secret {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
	}

	var upd tgUpdate
	_ = c.Bind(&upd) // malformed updates are treated as empty

	msg := upd.Message
	if msg == nil {
		msg = upd.EditedMessage
	}
	if msg == nil || msg.Chat == nil || msg.Chat.ID == 0 {
		return c.String(http.StatusOK, "ok")
	}
	chatID := msg.Chat.ID
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	// Voice/audio guard
	if len(msg.Voice) > 0 || len(msg.Audio) > 0 {
		h.reply(ctx, chatID, "Please send a text message.")
		return c.String(http.StatusOK, "ok")
	}

	text := strings.TrimSpace(msg.Text)
	ts := msg.Date
	if ts == 0 {
		ts = h.Now().Unix()
	}
	if text != "" {
		if err := h.Chats.AppendMessage(ctx, chatID, "user", text, ts); err != nil {
			log.Printf("webhook: append message failed: %v", err)
		}
	}

	if strings.HasPrefix(text, "/help") {
		h.clearDraft(ctx, chatID)
		h.reply(ctx, chatID, "Commands: /schedule <YYYY-MM-DD HH:MM> <duration m> <title>; /reschedule <YYYY-MM-DD HH:MM>; /cancel")
		return c.String(http.StatusOK, "ok")
	}

	lower := strings.ToLower(text)
	draft, err := h.Drafts.Get(ctx, chatID)
	if err != nil {
		log.Printf("webhook: load draft failed: %v", err)
	}

	if text != "" && draft != nil && containsAny(lower, cancelContextPhrases) {
		h.clearDraft(ctx, chatID)
		h.reply(ctx, chatID, "No worries, I'll leave that for now. Just let me know if you'd like to pick it back up.")
		return c.String(http.StatusOK, "ok")
	}

	switch {
	case strings.HasPrefix(text, "/schedule"):
		h.clearDraft(ctx, chatID)
		h.commandSchedule(ctx, chatID, text)
		return c.String(http.StatusOK, "ok")
	case strings.HasPrefix(text, "/reschedule"):
		h.clearDraft(ctx, chatID)
		h.commandReschedule(ctx, chatID, text)
		return c.String(http.StatusOK, "ok")
	case strings.HasPrefix(text, "/cancel"):
		h.clearDraft(ctx, chatID)
		h.cancelAppointment(ctx, chatID)
		return c.String(http.StatusOK, "ok")
	}

	if text == "" {
		return c.String(http.StatusOK, "ok")
	}

	// Continue an in-flight draft before looking for fresh intent keywords.
	if draft != nil && (draft.Intent == "schedule" || draft.Intent == "reschedule") {
		h.handleScheduling(ctx, chatID, text, draft, draft.Intent == "reschedule")
		return c.String(http.StatusOK, "ok")
	}

	if containsAny(lower, scheduleKeywords) {
		h.handleScheduling(ctx, chatID, text, draft, false)
		return c.String(http.StatusOK, "ok")
	}
	if containsAny(lower, rescheduleKeywords) {
		h.handleScheduling(ctx, chatID, text, draft, true)
		return c.String(http.StatusOK, "ok")
	}
	if containsAny(lower, cancelKeywords) {
		h.cancelAppointment(ctx, chatID)
		return c.String(http.StatusOK, "ok")
	}

	// No keyword matched: treat the message as the start of a scheduling
	// conversation anyway, so "dentist tomorrow 3pm" works without magic words.
	h.handleScheduling(ctx, chatID, text, draft, false)
	return c.String(http.StatusOK, "ok")
}

// handleScheduling merges the message's extracted details into the chat's
// draft and either prompts for what is still missing or books/moves the
// appointment.
func (h *WebhookHandler) handleScheduling(ctx context.Context, chatID int64, text string, draft *repository.Draft, isReschedule bool) {
	intent := "schedule"
	if isReschedule {
		intent = "reschedule"
	}
	if draft == nil || draft.Intent != intent {
		draft = &repository.Draft{Intent: intent}
	}

	details := h.Parser.Extract(text, h.Now())
	if details.Date != "" {
		draft.Date = details.Date
	}
	if details.Time != "" {
		draft.Time = details.Time
	}
	if details.Duration > 0 {
		draft.Duration = details.Duration
	}
	if details.Title != "" && draft.Title == "" {
		draft.Title = details.Title
	}

	var missing []string
	if draft.Date == "" {
		missing = append(missing, "date")
	}
	if draft.Time == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		h.saveDraft(ctx, chatID, draft)
		h.reply(ctx, chatID, promptForMissing(intent, missing))
		return
	}

	start, err := time.ParseInLocation("2006-01-02T15:04", draft.Date+"T"+draft.Time, h.loc())
	if err != nil {
		h.saveDraft(ctx, chatID, draft)
		h.reply(ctx, chatID, "I couldn't quite make out that time. Could you share it again?")
		return
	}

	duration := draft.Duration
	if duration <= 0 {
		duration = defaultDurationMin
	}
	title := draft.Title
	if title == "" {
		title = defaultTitle
	}

	if isReschedule {
		ev, err := h.Events.GetByChat(ctx, chatID)
		if errors.Is(err, repository.ErrNotFound) {
			h.clearDraft(ctx, chatID)
			h.reply(ctx, chatID, "I couldn't find another appointment to move right now.")
			return
		}
		if err != nil {
			h.fail(ctx, chatID, "load appointment", err)
			return
		}
		if err := h.moveEvent(ctx, chatID, ev, start, duration); err != nil {
			h.fail(ctx, chatID, "move appointment", err)
			return
		}
		h.clearDraft(ctx, chatID)
		h.reply(ctx, chatID, fmt.Sprintf("All set. I've moved your %s to %s for %d minutes.",
			ev.Summary, formatStart(start), duration))
		return
	}

	if err := h.createEvent(ctx, chatID, title, start, duration); err != nil {
		h.fail(ctx, chatID, "create appointment", err)
		return
	}
	h.clearDraft(ctx, chatID)
	h.reply(ctx, chatID, fmt.Sprintf("Great! I've scheduled %s on %s for %d minutes.",
		title, formatStart(start), duration))
	h.mail("Appointment scheduled", fmt.Sprintf("%s at %s (%dm).", title, start.Format(time.RFC3339), duration))
}

// commandSchedule handles the explicit /schedule command.
func (h *WebhookHandler) commandSchedule(ctx context.Context, chatID int64, text string) {
	m := scheduleCmdRE.FindStringSubmatch(text)
	if m == nil {
		h.reply(ctx, chatID, "Failed to schedule: Format: /schedule YYYY-MM-DD HH:MM 30m Title")
		return
	}
	start, err := time.ParseInLocation("2006-01-02T15:04", m[1]+"T"+m[2], h.loc())
	if err != nil {
		h.reply(ctx, chatID, "Failed to schedule: that date and time didn't parse.")
		return
	}
	duration, _ := strconv.Atoi(m[3])
	title := strings.TrimSpace(m[4])
	if title == "" {
		title = defaultTitle
	}

	if err := h.createEvent(ctx, chatID, title, start, duration); err != nil {
		h.fail(ctx, chatID, "create appointment", err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("All done! I've scheduled %s on %s for %d minutes.",
		title, formatStart(start), duration))
	h.mail("Appointment scheduled", fmt.Sprintf("%s at %s (%dm).", title, start.Format(time.RFC3339), duration))
}

// commandReschedule handles the explicit /reschedule command.  Duration is
// optional and defaults to the appointment's current length.
func (h *WebhookHandler) commandReschedule(ctx context.Context, chatID int64, text string) {
	m := rescheduleCmdRE.FindStringSubmatch(text)
	if m == nil {
		h.reply(ctx, chatID, "Failed to reschedule: Format: /reschedule YYYY-MM-DD HH:MM [30m]")
		return
	}
	ev, err := h.Events.GetByChat(ctx, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		h.reply(ctx, chatID, "Failed to reschedule: no existing appointment to move.")
		return
	}
	if err != nil {
		h.fail(ctx, chatID, "load appointment", err)
		return
	}
	start, err := time.ParseInLocation("2006-01-02T15:04", m[1]+"T"+m[2], h.loc())
	if err != nil {
		h.reply(ctx, chatID, "Failed to reschedule: that date and time didn't parse.")
		return
	}
	duration := ev.DurationMinutes()
	if m[3] != "" {
		duration, _ = strconv.Atoi(m[3])
	}
	if duration <= 0 {
		duration = defaultDurationMin
	}

	if err := h.moveEvent(ctx, chatID, ev, start, duration); err != nil {
		h.fail(ctx, chatID, "move appointment", err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("Sure thing. Your appointment is now set for %s and will last %d minutes.",
		formatStart(start), duration))
}

// cancelAppointment deletes the chat's event and pending reminders.
func (h *WebhookHandler) cancelAppointment(ctx context.Context, chatID int64) {
	_, err := h.Events.GetByChat(ctx, chatID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.reply(ctx, chatID, "I ran into an issue cancelling that. Please try again in a moment.")
		log.Printf("webhook: cancel lookup failed: %v", err)
		return
	}
	if err == nil {
		if err := h.Events.DeleteByChat(ctx, chatID); err != nil {
			h.fail(ctx, chatID, "delete appointment", err)
			return
		}
		if err := h.Reminders.DeletePending(ctx, chatID); err != nil {
			log.Printf("webhook: delete pending reminders failed: %v", err)
		}
	}
	h.clearDraft(ctx, chatID)
	h.reply(ctx, chatID, "Consider it done. Your appointment is cancelled.")
}

// createEvent stores the appointment and replaces its reminders.
func (h *WebhookHandler) createEvent(ctx context.Context, chatID int64, title string, start time.Time, durationMin int) error {
	end := start.Add(time.Duration(durationMin) * time.Minute)
	id, err := h.Events.Upsert(ctx, model.Event{
		ChatID:  chatID,
		Summary: title,
		StartAt: start.UTC(),
		EndAt:   end.UTC(),
	})
	if err != nil {
		return err
	}
	return h.Reminders.Replace(ctx, chatID, id, scheduler.PlanReminders(start, h.loc()))
}

// moveEvent updates the appointment's interval and replaces its reminders.
func (h *WebhookHandler) moveEvent(ctx context.Context, chatID int64, ev model.Event, start time.Time, durationMin int) error {
	end := start.Add(time.Duration(durationMin) * time.Minute)
	if err := h.Events.UpdateTimes(ctx, ev.ID, start, end); err != nil {
		return err
	}
	return h.Reminders.Replace(ctx, chatID, ev.ID, scheduler.PlanReminders(start, h.loc()))
}

// ----- small helpers -----

func (h *WebhookHandler) loc() *time.Location {
	if h.Loc != nil {
		return h.Loc
	}
	return time.UTC
}

// reply sends a best-effort chat message; delivery failures are logged only.
func (h *WebhookHandler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.Telegram.SendMessage(ctx, chatID, text); err != nil {
		log.Printf("webhook: telegram reply failed: %v", err)
	}
}

// mail sends a best-effort notification email to the default recipient.
func (h *WebhookHandler) mail(subject, body string) {
	if err := h.Mailer.Send(subject, body, ""); err != nil {
		log.Printf("webhook: send email failed: %v", err)
	}
}

// fail logs the underlying error and tells the user something went wrong
// without leaking internals into the chat.
func (h *WebhookHandler) fail(ctx context.Context, chatID int64, op string, err error) {
	log.Printf("webhook: %s failed: %v", op, err)
	h.clearDraft(ctx, chatID)
	h.reply(ctx, chatID, "Hmm, I wasn't able to finish that. Please try again in a moment.")
}

func (h *WebhookHandler) saveDraft(ctx context.Context, chatID int64, d *repository.Draft) {
	if err := h.Drafts.Set(ctx, chatID, d); err != nil {
		log.Printf("webhook: save draft failed: %v", err)
	}
}

func (h *WebhookHandler) clearDraft(ctx context.Context, chatID int64) {
	if err := h.Drafts.Clear(ctx, chatID); err != nil {
		log.Printf("webhook: clear draft failed: %v", err)
	}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func formatStart(t time.Time) string {
	return t.Format("2006-01-02 at 15:04")
}

// promptForMissing picks a conversational prompt for the slots still needed.
func promptForMissing(intent string, missing []string) string {
	needDate := false
	needTime := false
	for _, m := range missing {
		switch m {
		case "date":
			needDate = true
		case "time":
			needTime = true
		}
	}
	if intent == "reschedule" {
		switch {
		case needDate && needTime:
			return "Sure, I can move it. What day and time should I switch it to?"
		case needDate:
			return "Happy to reschedule. Which day works better for you?"
		case needTime:
			return "Got it. And what time should we move it to?"
		}
	} else {
		switch {
		case needDate && needTime:
			return "Absolutely! What day and time would you like me to set up?"
		case needDate:
			return "Sounds good. Which day should I put it on?"
		case needTime:
			return "Great. What time should I book it for?"
		}
	}
	return "Happy to help. Just share the details and I'll take care of it."
}
