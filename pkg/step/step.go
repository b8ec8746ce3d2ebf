// Package step implements quest instruction nodes and the first-match
// resolver that projects a single recommended instruction out of a tree of
// conditional branches.
package step

import (
	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/requirement"
)

// Instruction is the resolved output shown to the player: what to do next,
// plus the items it is worth having. The item requirements are advisory
// display data, never enforced.
type Instruction struct {
	Text  string
	Items []requirement.Requirement
}

// Step is a node that can resolve to an instruction for the current state.
// A nil result means the node is already complete and has nothing actionable
// to show.
type Step interface {
	Resolve(s *gamestate.Snapshot) *Instruction
}

// DetailedStep is a leaf instruction.
type DetailedStep struct {
	Text  string
	Items []requirement.Requirement
}

// NewDetailedStep creates a leaf step with optional advisory items.
func NewDetailedStep(text string, items ...requirement.Requirement) *DetailedStep {
	return &DetailedStep{Text: text, Items: items}
}

// Resolve always yields the step's own instruction.
func (d *DetailedStep) Resolve(_ *gamestate.Snapshot) *Instruction {
	return &Instruction{Text: d.Text, Items: d.Items}
}
