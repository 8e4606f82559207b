package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// A handler panic must still produce an HTTP response; a dropped connection
// makes Telegram retry the webhook delivery indefinitely.
func TestNewRecoversFromHandlerPanic(t *testing.T) {
	e := New()
	e.POST("/boom", func(c echo.Context) error {
		panic("unexpected nil")
	})

	req := httptest.NewRequest(http.MethodPost, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from recovered panic, got %d", rec.Code)
	}
}

func TestDemoRoutesRegisteredOnNew(t *testing.T) {
	e := New()
	RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from root route, got %d", rec.Code)
	}
}
