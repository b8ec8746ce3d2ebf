// Package session defines the per-player quest session: which quest is
// being followed and the most recent state snapshot reported for it.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/halgrim/quest-guide/pkg/gamestate"
)

// Session ties a player to one quest walkthrough. The snapshot is replaced
// wholesale on every state report; Latched records which pass-once
// requirements have fired, since the compiled quest tree does not outlive a
// request.
type Session struct {
	ID        uuid.UUID           `json:"id"`
	QuestFile string              `json:"quest_file"`
	QuestName string              `json:"quest_name"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Snapshot  *gamestate.Snapshot `json:"snapshot,omitempty"`
	Latched   []string            `json:"latched,omitempty"`
}

// New creates a session for a quest with a fresh ID and an empty snapshot.
func New(questFile, questName string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		QuestFile: questFile,
		QuestName: questName,
		CreatedAt: now,
		UpdatedAt: now,
		Snapshot:  gamestate.New(),
	}
}
