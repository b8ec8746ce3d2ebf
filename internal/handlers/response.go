package handlers

import (
	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/quest"
	"github.com/halgrim/quest-guide/pkg/requirement"
	"github.com/halgrim/quest-guide/pkg/session"
)

// ErrorResponse is the JSON body for all error replies.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Requirement status values for advisory coloring.
const (
	StatusMet       = "met"
	StatusBoostable = "boostable"
	StatusUnmet     = "unmet"
)

// RequirementStatus is one displayable requirement with its advisory state.
type RequirementStatus struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

// StepResponse is the resolved walkthrough state for a session.
type StepResponse struct {
	Instruction  string              `json:"instruction,omitempty"`
	Items        []RequirementStatus `json:"items,omitempty"`
	Requirements []RequirementStatus `json:"requirements,omitempty"`
	Progress     int                 `json:"progress"`
	Done         bool                `json:"done"`
}

// SessionResponse is a session together with its resolved step.
type SessionResponse struct {
	Session *session.Session `json:"session"`
	Step    StepResponse     `json:"step"`
}

// resolveStep projects the quest's next instruction and advisory statuses
// for a snapshot.
func resolveStep(q *quest.Quest, s *gamestate.Snapshot) StepResponse {
	resp := StepResponse{
		Progress:     q.Progress(s),
		Requirements: requirementStatuses(q.GeneralRequirements(), s),
	}

	in, done := q.NextInstruction(s)
	resp.Done = done
	if in != nil {
		resp.Instruction = in.Text
		resp.Items = requirementStatuses(in.Items, s)
	}
	return resp
}

// requirementStatuses derives advisory display states. Boost-aware
// requirements report boostable when a consumable could close the gap.
func requirementStatuses(reqs []requirement.Requirement, s *gamestate.Snapshot) []RequirementStatus {
	statuses := make([]RequirementStatus, 0, len(reqs))
	for _, r := range reqs {
		status := StatusUnmet
		if r.Check(s) {
			status = StatusMet
		} else if sk, ok := r.(*requirement.SkillRequirement); ok {
			if sk.CheckBoosted(s) == requirement.BoostCanPass {
				status = StatusBoostable
			}
		}
		statuses = append(statuses, RequirementStatus{Text: r.DisplayText(), Status: status})
	}
	return statuses
}
