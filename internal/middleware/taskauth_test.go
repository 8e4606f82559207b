package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lromero/appointment-assistant/internal/utils"
)

func runTaskAuth(t *testing.T, secret, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tasks/send-reminder", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	if err := TaskAuth(secret)(next)(e.NewContext(req, rec)); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec
}

func TestTaskAuthMissingToken(t *testing.T) {
	rec := runTaskAuth(t, "sec", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTaskAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewTaskToken("other-secret", 5)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	rec := runTaskAuth(t, "sec", "Bearer "+tok.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTaskAuthValidToken(t *testing.T) {
	tok, err := utils.NewTaskToken("sec", 5)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	rec := runTaskAuth(t, "sec", "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
