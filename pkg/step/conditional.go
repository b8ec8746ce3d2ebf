package step

import (
	"fmt"

	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/requirement"
)

type branch struct {
	when requirement.Requirement
	then Step
}

// ConditionalStep dispatches to the first branch whose predicate holds,
// falling back to a default step when none do. Branches are not mutually
// exclusive; declaration order is the tie-break, the earliest match wins.
//
// An optional locking condition marks the whole node as complete: while it
// holds, Resolve yields nil and no branch is consulted.
type ConditionalStep struct {
	fallback Step
	branches []branch
	locking  requirement.Requirement
}

// NewConditionalStep creates a conditional node with its mandatory default
// step.
func NewConditionalStep(fallback Step) (*ConditionalStep, error) {
	if fallback == nil {
		return nil, fmt.Errorf("conditional step needs a default step")
	}
	return &ConditionalStep{fallback: fallback}, nil
}

// AddStep appends a (predicate, step) branch. Branches are evaluated in the
// order they were added.
func (c *ConditionalStep) AddStep(when requirement.Requirement, then Step) error {
	if when == nil || then == nil {
		return fmt.Errorf("conditional branch needs both a predicate and a step")
	}
	c.branches = append(c.branches, branch{when: when, then: then})
	return nil
}

// SetLockingCondition installs the completion predicate for this node.
func (c *ConditionalStep) SetLockingCondition(r requirement.Requirement) {
	c.locking = r
}

// Locked reports whether the locking condition currently marks this node
// complete. A node without a locking condition is never locked.
func (c *ConditionalStep) Locked(s *gamestate.Snapshot) bool {
	return c.locking != nil && c.locking.Check(s)
}

// Resolve picks the instruction for the current state. The locking condition
// is consulted first; then branches in declaration order; then the default.
// Child steps resolve recursively, so a locked child propagates completion.
func (c *ConditionalStep) Resolve(s *gamestate.Snapshot) *Instruction {
	if c.Locked(s) {
		return nil
	}
	for _, b := range c.branches {
		if b.when.Check(s) {
			return b.then.Resolve(s)
		}
	}
	return c.fallback.Resolve(s)
}
