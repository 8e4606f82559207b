package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lromero/appointment-assistant/internal/config"
	"github.com/lromero/appointment-assistant/internal/repository"
	"github.com/lromero/appointment-assistant/internal/utils"
)

// AdminHandler bundles repositories for the read-only operator API.
type AdminHandler struct {
	Cfg       config.Config
	Chats     *repository.ChatRepo
	Events    *repository.EventRepo
	Reminders *repository.ReminderRepo
}

func NewAdminHandler(cfg config.Config, chats *repository.ChatRepo, events *repository.EventRepo, reminders *repository.ReminderRepo) *AdminHandler {
	if chats == nil || events == nil || reminders == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Cfg: cfg, Chats: chats, Events: events, Reminders: reminders}
}

// ----- DTOs -----

type eventResp struct {
	ID              uint64    `json:"id"`
	ChatID          int64     `json:"chat_id"`
	Summary         string    `json:"summary"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}

type messageResp struct {
	Role string `json:"role"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

type reminderResp struct {
	ID      uint64     `json:"id"`
	ChatID  int64      `json:"chat_id"`
	EventID uint64     `json:"event_id"`
	Kind    string     `json:"kind"`
	DueAt   time.Time  `json:"due_at"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
}

// GetChatEvent returns the appointment currently stored for a chat.
func (h *AdminHandler) GetChatEvent(c echo.Context) error {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chat id"})
	}
	ev, err := h.Events.GetByChat(c.Request().Context(), chatID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no appointment for chat"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, eventResp{
		ID: ev.ID, ChatID: ev.ChatID, Summary: ev.Summary,
		Start: ev.StartAt, End: ev.EndAt, DurationMinutes: ev.DurationMinutes(),
	})
}

// GetChatMessages returns the chat's recent transcript, oldest first.
func (h *AdminHandler) GetChatMessages(c echo.Context) error {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chat id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	msgs, err := h.Chats.RecentMessages(c.Request().Context(), chatID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]messageResp, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResp{Role: m.Role, Text: m.Text, TS: m.TS})
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out})
}

// ListReminders returns the reminder backlog.  ?pending=true restricts the
// result to unsent rows.
func (h *AdminHandler) ListReminders(c echo.Context) error {
	pending := c.QueryParam("pending") == "true"
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rems, err := h.Reminders.List(c.Request().Context(), pending, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reminderResp, 0, len(rems))
	for _, r := range rems {
		out = append(out, reminderResp{
			ID: r.ID, ChatID: r.ChatID, EventID: r.EventID,
			Kind: r.Kind, DueAt: r.DueAt, SentAt: r.SentAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"reminders": out})
}

// CreateTaskToken mints a short-lived bearer token for the reminder task
// callback, for wiring up an external scheduler.
func (h *AdminHandler) CreateTaskToken(c echo.Context) error {
	if h.Cfg.TaskTokenSecret == "" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "task tokens not configured"})
	}
	tok, err := utils.NewTaskToken(h.Cfg.TaskTokenSecret, h.Cfg.TaskTokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": tok.Token, "expires": tok.Exp})
}
