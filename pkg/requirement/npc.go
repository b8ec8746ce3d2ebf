package requirement

import (
	"fmt"

	"github.com/halgrim/quest-guide/pkg/gamestate"
)

// NpcInteractingRequirement checks that an NPC with the given ID is nearby
// and currently interacting with the player.
type NpcInteractingRequirement struct {
	npcID int
}

// NewNpcInteractingRequirement creates an NPC interaction check.
func NewNpcInteractingRequirement(npcID int) *NpcInteractingRequirement {
	return &NpcInteractingRequirement{npcID: npcID}
}

func (r *NpcInteractingRequirement) Check(s *gamestate.Snapshot) bool {
	if s == nil {
		return false
	}
	for _, npc := range s.NPCs {
		if npc.ID == r.npcID && npc.Interacting {
			return true
		}
	}
	return false
}

func (r *NpcInteractingRequirement) DisplayText() string {
	return fmt.Sprintf("NPC %d interacting with you", r.npcID)
}
