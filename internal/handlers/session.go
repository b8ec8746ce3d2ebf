package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/halgrim/quest-guide/internal/storage"
	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/quest"
	"github.com/halgrim/quest-guide/pkg/session"
)

// EventPublisher publishes session lifecycle events. Satisfied by
// events.Broadcaster; handler tests substitute a no-op.
type EventPublisher interface {
	PublishStepUpdated(ctx context.Context, sessionID uuid.UUID, instruction string) error
	PublishSessionComplete(ctx context.Context, sessionID uuid.UUID, questName string) error
	PublishSessionDeleted(ctx context.Context, sessionID uuid.UUID) error
}

// CreateSessionRequest starts a walkthrough for one quest.
type CreateSessionRequest struct {
	QuestFile string `json:"quest_file"`
}

// SessionHandler manages walkthrough sessions and state reports.
//
//	POST   /v1/sessions             -> create a session for a quest
//	GET    /v1/sessions/{id}        -> session with its resolved step
//	DELETE /v1/sessions/{id}        -> remove a session
//	PUT    /v1/sessions/{id}/state  -> report a snapshot, get the next step
type SessionHandler struct {
	log     *slog.Logger
	storage storage.Storage
	events  EventPublisher
}

func NewSessionHandler(log *slog.Logger, storage storage.Storage, events EventPublisher) *SessionHandler {
	return &SessionHandler{
		log:     log,
		storage: storage,
		events:  events,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")

	if rest == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGet(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case len(parts) == 2 && parts[1] == "state" && r.Method == http.MethodPut:
		h.handleState(w, r, id)
	default:
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.QuestFile == "" {
		writeError(w, h.log, http.StatusBadRequest, "quest_file is required")
		return
	}

	ctx := r.Context()
	q, err := h.storage.GetQuest(ctx, req.QuestFile)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, h.log, http.StatusNotFound, "Quest not found")
			return
		}
		h.log.Error("Failed to load quest", "error", err, "filename", req.QuestFile)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to load quest")
		return
	}

	sess := session.New(req.QuestFile, q.Name)
	step := resolveStep(q, sess.Snapshot)
	sess.Latched = q.LatchedNames()
	if err := h.storage.SaveSession(ctx, sess); err != nil {
		h.log.Error("Failed to save session", "error", err, "uuid", sess.ID)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.log.Info("Session created", "uuid", sess.ID, "quest", q.Name)
	writeJSON(w, h.log, http.StatusCreated, SessionResponse{
		Session: sess,
		Step:    step,
	})
}

func (h *SessionHandler) handleGet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ctx := r.Context()
	sess, q, ok := h.loadSessionQuest(w, ctx, id)
	if !ok {
		return
	}
	writeJSON(w, h.log, http.StatusOK, SessionResponse{
		Session: sess,
		Step:    resolveStep(q, sess.Snapshot),
	})
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ctx := r.Context()
	if err := h.storage.DeleteSession(ctx, id); err != nil {
		h.log.Error("Failed to delete session", "error", err, "uuid", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if err := h.events.PublishSessionDeleted(ctx, id); err != nil {
		h.log.Warn("Failed to publish session deleted event", "error", err, "uuid", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleState stores the reported snapshot and resolves the next step.
func (h *SessionHandler) handleState(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var snap gamestate.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid snapshot body")
		return
	}

	ctx := r.Context()
	sess, q, ok := h.loadSessionQuest(w, ctx, id)
	if !ok {
		return
	}

	sess.Snapshot = &snap

	// Resolve before saving so pass-once requirements fired by this snapshot
	// are persisted with it.
	step := resolveStep(q, sess.Snapshot)
	sess.Latched = q.LatchedNames()
	if err := h.storage.SaveSession(ctx, sess); err != nil {
		h.log.Error("Failed to save session", "error", err, "uuid", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to save session")
		return
	}
	if step.Done {
		if err := h.events.PublishSessionComplete(ctx, id, q.Name); err != nil {
			h.log.Warn("Failed to publish completion event", "error", err, "uuid", id)
		}
	} else if err := h.events.PublishStepUpdated(ctx, id, step.Instruction); err != nil {
		h.log.Warn("Failed to publish step event", "error", err, "uuid", id)
	}

	writeJSON(w, h.log, http.StatusOK, step)
}

// loadSessionQuest fetches the session and recompiles its quest, writing the
// error response itself when either is unavailable.
func (h *SessionHandler) loadSessionQuest(w http.ResponseWriter, ctx context.Context, id uuid.UUID) (*session.Session, *quest.Quest, bool) {
	sess, err := h.storage.LoadSession(ctx, id)
	if err != nil {
		h.log.Error("Failed to load session", "error", err, "uuid", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to load session")
		return nil, nil, false
	}
	if sess == nil {
		writeError(w, h.log, http.StatusNotFound, "Session not found")
		return nil, nil, false
	}

	q, err := h.storage.GetQuest(ctx, sess.QuestFile)
	if err != nil {
		h.log.Error("Failed to load quest for session", "error", err, "uuid", id, "filename", sess.QuestFile)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to load quest")
		return nil, nil, false
	}

	// The quest tree is compiled fresh per request; carry the session's
	// pass-once progress into it.
	q.RestoreLatches(sess.Latched)
	return sess, q, true
}
