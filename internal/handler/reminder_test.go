package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lromero/appointment-assistant/internal/mailer"
	"github.com/lromero/appointment-assistant/internal/telegram"
)

func postTask(t *testing.T, h *TaskHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tasks/send-reminder", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.SendReminder(e.NewContext(req, rec)); err != nil {
		t.Fatalf("task handler returned error: %v", err)
	}
	return rec
}

func TestSendReminderRequiresChatID(t *testing.T) {
	h := NewTaskHandler(nil, nil)
	rec := postTask(t, h, `{"type":"one_hour","event":{"summary":"Dentist","start":"2026-09-10T15:00:00-05:00"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSendReminderDeliversOneHour(t *testing.T) {
	fake := &fakeBotAPI{}
	srv := fake.server(t)
	defer srv.Close()

	tg := telegram.New("test-token")
	tg.BaseURL = srv.URL

	h := NewTaskHandler(tg, mailer.New("", 0, "", "", "", ""))
	rec := postTask(t, h, `{"chat_id":7,"type":"one_hour","event":{"summary":"Dentist","start":"2026-09-10T15:00:00-05:00"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sent := fake.sent()
	if len(sent) != 1 {
		t.Fatalf("expected one telegram message, got %d", len(sent))
	}
	if !strings.Contains(sent[0], "Dentist") || !strings.Contains(sent[0], "1 hour") {
		t.Fatalf("unexpected reminder text: %q", sent[0])
	}
}
