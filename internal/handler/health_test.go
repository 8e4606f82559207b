package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func getDemo(t *testing.T, h echo.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestRootReturnsConfirmationString(t *testing.T) {
	rec := getDemo(t, Root, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "Hello, Cloud Run!" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestRootIgnoresEnvironment(t *testing.T) {
	t.Setenv(secretEnvName, "whatever")
	rec := getDemo(t, Root, "/")
	if rec.Body.String() != "Hello, Cloud Run!" {
		t.Fatalf("root body changed with environment: %q", rec.Body.String())
	}
}

func decodePing(t *testing.T, rec *httptest.ResponseRecorder) pingResp {
	t.Helper()
	var resp pingResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode ping response: %v", err)
	}
	return resp
}

func TestPingSecretAbsent(t *testing.T) {
	t.Setenv(secretEnvName, "")
	rec := getDemo(t, Ping, "/ping")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodePing(t, rec); resp.SecretPresent {
		t.Fatalf("expected secret_present=false for empty env var")
	}
}

func TestPingSecretPresent(t *testing.T) {
	t.Setenv(secretEnvName, "s3cr3t-value")
	rec := getDemo(t, Ping, "/ping")
	if resp := decodePing(t, rec); !resp.SecretPresent {
		t.Fatalf("expected secret_present=true")
	}
	// Presence only; the value itself must never be echoed.
	if strings.Contains(rec.Body.String(), "s3cr3t-value") {
		t.Fatalf("response leaked the secret value: %s", rec.Body.String())
	}
}

func TestPingIsDeterministic(t *testing.T) {
	t.Setenv(secretEnvName, "fixed")
	first := getDemo(t, Ping, "/ping").Body.String()
	second := getDemo(t, Ping, "/ping").Body.String()
	if first != second {
		t.Fatalf("responses differ under unchanged environment:\n%s\n%s", first, second)
	}
}
