package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/halgrim/quest-guide/internal/storage"
)

func TestHealthHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(storage.NewMockStorage(), log)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp HealthResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "healthy" {
			t.Errorf("expected healthy, got %s", resp.Status)
		}
		if resp.Components["storage"] != "healthy" {
			t.Errorf("expected storage healthy, got %s", resp.Components["storage"])
		}
	})

	t.Run("storage down", func(t *testing.T) {
		store := storage.NewMockStorage()
		store.SetPingError(errors.New("connection refused"))
		h := NewHealthHandler(store, log)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
		var resp HealthResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "degraded" {
			t.Errorf("expected degraded, got %s", resp.Status)
		}
	})
}
