package customers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storeline/checkout/internal/event"
)

func newTestHandler() *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(nil, event.NewDispatcher(event.WithLogger(logger)), logger)
}

func TestHandler_HandleCreate_Validation(t *testing.T) {
	t.Run("rejects malformed body", func(t *testing.T) {
		handler := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader("not json"))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("rejects missing name", func(t *testing.T) {
		handler := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"id":"123"}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleChangeAddress_Validation(t *testing.T) {
	t.Run("rejects invalid address before touching storage", func(t *testing.T) {
		handler := newTestHandler()

		body := `{"street":"","number":1,"zip_code":"z","city":"c"}`
		req := httptest.NewRequest(http.MethodPatch, "/customers/123/address", strings.NewReader(body))
		req.SetPathValue("id", "123")
		rec := httptest.NewRecorder()

		handler.HandleChangeAddress(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}
