package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestExtractOwner(t *testing.T) {
	e := echo.New()
	handler := ExtractOwner()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetOwner(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()

	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "alice" {
		t.Errorf("owner = %q, want alice", rec.Body.String())
	}
}

func TestExtractOwner_MissingHeader(t *testing.T) {
	e := echo.New()
	handler := ExtractOwner()(func(c echo.Context) error {
		t.Fatal("handler must not run without X-User-ID")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
