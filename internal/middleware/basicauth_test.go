package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/lromero/appointment-assistant/internal/utils"
)

func runBasicAuth(t *testing.T, passHash, user, pass string, withHeader bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/reminders", nil)
	if withHeader {
		cred := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
		req.Header.Set("Authorization", "Basic "+cred)
	}
	rec := httptest.NewRecorder()
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	if err := AdminBasicAuth("admin", passHash)(next)(e.NewContext(req, rec)); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec
}

func adminHash(t *testing.T) string {
	t.Helper()
	h, err := utils.HashPassword("letmein", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return h
}

func TestAdminBasicAuthMissingHeader(t *testing.T) {
	rec := runBasicAuth(t, adminHash(t), "", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatalf("expected WWW-Authenticate challenge header")
	}
}

func TestAdminBasicAuthWrongPassword(t *testing.T) {
	rec := runBasicAuth(t, adminHash(t), "admin", "wrong", true)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminBasicAuthWrongUser(t *testing.T) {
	rec := runBasicAuth(t, adminHash(t), "root", "letmein", true)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminBasicAuthValidCredentials(t *testing.T) {
	rec := runBasicAuth(t, adminHash(t), "admin", "letmein", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
