package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lromero/appointment-assistant/internal/mailer"
	"github.com/lromero/appointment-assistant/internal/queue"
	"github.com/lromero/appointment-assistant/internal/telegram"
)

// TaskHandler serves the reminder task callback.  The in-process dispatcher
// normally drives delivery through the broker; this endpoint keeps the HTTP
// contract so an external scheduler can POST due reminders instead.
type TaskHandler struct {
	Telegram *telegram.Client
	Mailer   *mailer.Mailer
}

func NewTaskHandler(tg *telegram.Client, mail *mailer.Mailer) *TaskHandler {
	return &TaskHandler{Telegram: tg, Mailer: mail}
}

// SendReminder accepts a ReminderDueEvent payload and delivers the
// notifications.  A missing chat_id is the caller's mistake and gets a 400;
// a delivery failure is a 502 so the scheduler retries.
func (h *TaskHandler) SendReminder(c echo.Context) error {
	var ev queue.ReminderDueEvent
	if err := c.Bind(&ev); err != nil || ev.ChatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false})
	}
	if err := queue.Deliver(c.Request().Context(), ev, h.Telegram, h.Mailer); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"ok": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
