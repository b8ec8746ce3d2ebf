package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/halgrim/quest-guide/internal/storage"
	"github.com/halgrim/quest-guide/pkg/quest"
)

func setupQuestHandler(t *testing.T) *QuestHandler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := storage.NewMockStorage()
	store.AddQuest("test_quest.json", testQuestDefinition())
	return NewQuestHandler(log, store)
}

func TestQuestList(t *testing.T) {
	h := setupQuestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quests", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var quests map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &quests); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if quests["Test Quest"] != "test_quest.json" {
		t.Errorf("expected test_quest.json, got %q", quests["Test Quest"])
	}
}

func TestQuestGet(t *testing.T) {
	h := setupQuestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quests/test_quest.json", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var def quest.Definition
	if err := json.Unmarshal(w.Body.Bytes(), &def); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if def.Name != "Test Quest" {
		t.Errorf("expected Test Quest, got %q", def.Name)
	}
	if len(def.Steps) != 3 {
		t.Errorf("expected 3 steps, got %d", len(def.Steps))
	}
}

func TestQuestGetNotFound(t *testing.T) {
	h := setupQuestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quests/missing.json", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestQuestGetPathTraversal(t *testing.T) {
	h := setupQuestHandler(t)
	for _, path := range []string{"/v1/quests/../secrets.json", "/v1/quests/sub/quest.json"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestQuestMethodNotAllowed(t *testing.T) {
	h := setupQuestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/quests", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
