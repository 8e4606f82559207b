package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/lromero/appointment-assistant/internal/config"
	"github.com/lromero/appointment-assistant/internal/repository"
	"github.com/lromero/appointment-assistant/internal/telegram"
)

// fakeBotAPI records sendMessage calls made against a stub Telegram server.
type fakeBotAPI struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeBotAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("unexpected bot API path: %s", r.URL.Path)
		}
		var body struct {
			ChatID int64  `json:"chat_id"`
			Text   string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.texts = append(f.texts, body.Text)
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
}

func (f *fakeBotAPI) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func postWebhook(t *testing.T, h *WebhookHandler, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	if err := h.Handle(e.NewContext(req, rec)); err != nil {
		t.Fatalf("webhook handler returned error: %v", err)
	}
	return rec
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	h := &WebhookHandler{
		Cfg: config.Config{TelegramWebhookSecret: "expected"},
		Now: time.Now,
	}
	rec := postWebhook(t, h, `{}`, map[string]string{
		"X-Telegram-Bot-Api-Secret-Token": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWebhookIgnoresUpdateWithoutChat(t *testing.T) {
	h := &WebhookHandler{Cfg: config.Config{}, Now: time.Now}
	rec := postWebhook(t, h, `{"message":{"text":"hello"}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("expected body ok, got %q", rec.Body.String())
	}
}

func TestWebhookVoiceGuard(t *testing.T) {
	fake := &fakeBotAPI{}
	srv := fake.server(t)
	defer srv.Close()

	tg := telegram.New("test-token")
	tg.BaseURL = srv.URL

	h := &WebhookHandler{
		Cfg:      config.Config{},
		Drafts:   repository.NewContextStore(nil, 0),
		Telegram: tg,
		Now:      time.Now,
	}
	rec := postWebhook(t, h, `{"message":{"chat":{"id":42},"date":1700000000,"voice":{"duration":3}}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sent := fake.sent()
	if len(sent) != 1 || sent[0] != "Please send a text message." {
		t.Fatalf("expected voice-guard reply, got %v", sent)
	}
}

// A malformed /schedule must come back as a conversational failure reply on a
// 200, never as a 5xx; Telegram retries anything else.
func TestWebhookScheduleCommandMalformed(t *testing.T) {
	fake := &fakeBotAPI{}
	srv := fake.server(t)
	defer srv.Close()

	tg := telegram.New("test-token")
	tg.BaseURL = srv.URL

	// Unreachable database: transcript writes fail and are logged, but the
	// command path must still answer the user.
	db, err := sql.Open("mysql", "app:app@tcp(127.0.0.1:1)/app?parseTime=true")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer func() { _ = db.Close() }()

	h := &WebhookHandler{
		Cfg:      config.Config{},
		Chats:    repository.NewChatRepo(db),
		Drafts:   repository.NewContextStore(nil, 0),
		Telegram: tg,
		Now:      time.Now,
	}
	rec := postWebhook(t, h, `{"message":{"chat":{"id":7},"date":1700000000,"text":"/schedule garbage"}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sent := fake.sent()
	if len(sent) != 1 || !strings.HasPrefix(sent[0], "Failed to schedule: Format:") {
		t.Fatalf("expected format failure reply, got %v", sent)
	}
}
