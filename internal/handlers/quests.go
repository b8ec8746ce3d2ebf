package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/halgrim/quest-guide/internal/storage"
)

// QuestHandler serves the quest definition catalog.
//
//	GET /v1/quests          -> map of quest name to filename
//	GET /v1/quests/{file}   -> the raw quest definition
type QuestHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewQuestHandler(log *slog.Logger, storage storage.Storage) *QuestHandler {
	return &QuestHandler{
		log:     log,
		storage: storage,
	}
}

func (h *QuestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	filename := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/quests"), "/")
	if filename == "" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, r, filename)
}

func (h *QuestHandler) handleList(w http.ResponseWriter, r *http.Request) {
	quests, err := h.storage.ListQuests(r.Context())
	if err != nil {
		h.log.Error("Failed to list quests", "error", err)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to list quests")
		return
	}
	writeJSON(w, h.log, http.StatusOK, quests)
}

func (h *QuestHandler) handleGet(w http.ResponseWriter, r *http.Request, filename string) {
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") {
		writeError(w, h.log, http.StatusBadRequest, "Invalid filename")
		return
	}

	def, err := h.storage.GetQuestDefinition(r.Context(), filename)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, h.log, http.StatusNotFound, "Quest not found")
			return
		}
		h.log.Error("Failed to get quest", "error", err, "filename", filename)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to retrieve quest")
		return
	}

	writeJSON(w, h.log, http.StatusOK, def)
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, msg string) {
	writeJSON(w, log, status, ErrorResponse{Error: msg})
}
