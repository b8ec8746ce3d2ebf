// Package requirement implements the predicate core of the quest engine:
// leaf checks against a game-state snapshot and boolean combinators over
// them. Requirement trees are built once when a quest is loaded and are
// immutable afterwards; evaluation is a pure function of the snapshot.
//
// Evaluation fails closed: a nil snapshot, a missing counter, or an unknown
// operator all evaluate to false rather than erroring, so the step resolver
// always has a usable answer.
package requirement

import "github.com/halgrim/quest-guide/pkg/gamestate"

// Requirement is a displayable boolean predicate over a state snapshot.
type Requirement interface {
	// Check reports whether the requirement is currently satisfied.
	// It must not mutate the snapshot.
	Check(s *gamestate.Snapshot) bool

	// DisplayText is a short human-readable description of the requirement.
	DisplayText() string
}

// Operation is an integer comparison used by counter and skill requirements.
type Operation string

const (
	OpEqual        Operation = "eq"
	OpNotEqual     Operation = "neq"
	OpGreaterEqual Operation = "ge"
	OpLessEqual    Operation = "le"
	OpGreater      Operation = "gt"
	OpLess         Operation = "lt"
)

// Compare applies the operation to (actual, required). Unknown operations
// return false.
func (op Operation) Compare(actual, required int) bool {
	switch op {
	case OpEqual:
		return actual == required
	case OpNotEqual:
		return actual != required
	case OpGreaterEqual:
		return actual >= required
	case OpLessEqual:
		return actual <= required
	case OpGreater:
		return actual > required
	case OpLess:
		return actual < required
	default:
		return false
	}
}

// Valid reports whether op is one of the defined comparison operations.
func (op Operation) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual, OpGreater, OpLess:
		return true
	}
	return false
}

// LogicType selects how a Conditions composite combines its children.
type LogicType string

const (
	LogicAnd LogicType = "and"
	LogicOr  LogicType = "or"
	LogicNor LogicType = "nor"
)

// Valid reports whether lt is one of the defined logic types.
func (lt LogicType) Valid() bool {
	switch lt {
	case LogicAnd, LogicOr, LogicNor:
		return true
	}
	return false
}
