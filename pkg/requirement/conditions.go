package requirement

import (
	"fmt"
	"strings"

	"github.com/halgrim/quest-guide/pkg/gamestate"
)

// Conditions combines child requirements with AND/OR/NOR logic. Children are
// evaluated in declaration order with short-circuiting: AND stops at the
// first false child, OR (and NOR) at the first true one.
//
// An empty child list evaluates to true for AND, false for OR and true for
// NOR. Nesting is unrestricted; trees are built bottom-up at load time and
// never mutated afterwards, so cycles cannot occur.
type Conditions struct {
	logic    LogicType
	children []Requirement
	negated  bool
	text     string

	// passOnce latches the result: once the conditions have been satisfied
	// they report satisfied forever. Used for progress that the game does not
	// track in a counter, e.g. "has talked to an NPC this session". A latched
	// tree carries mutable state and must not be shared between concurrent
	// evaluators.
	passOnce bool
	passed   bool
}

// NewConditions creates a composite requirement. All children must be
// non-nil and the logic type must be valid; violations are configuration
// errors reported at construction.
func NewConditions(logic LogicType, children ...Requirement) (*Conditions, error) {
	if !logic.Valid() {
		return nil, fmt.Errorf("invalid logic type %q", logic)
	}
	for i, c := range children {
		if c == nil {
			return nil, fmt.Errorf("nil child requirement at index %d", i)
		}
	}
	return &Conditions{logic: logic, children: children}, nil
}

// And combines requirements so that all must pass. Panics on nil children;
// quest construction is the only caller and a nil there is a programmer error.
func And(children ...Requirement) *Conditions {
	return mustConditions(LogicAnd, children)
}

// Or combines requirements so that at least one must pass.
func Or(children ...Requirement) *Conditions {
	return mustConditions(LogicOr, children)
}

// Nor combines requirements so that none may pass.
func Nor(children ...Requirement) *Conditions {
	return mustConditions(LogicNor, children)
}

func mustConditions(logic LogicType, children []Requirement) *Conditions {
	c, err := NewConditions(logic, children...)
	if err != nil {
		panic(err)
	}
	return c
}

// Negated inverts the combined result. Returns the receiver for chaining
// during quest construction.
func (c *Conditions) Negated() *Conditions {
	c.negated = true
	return c
}

// PassOnce enables the latch: after the first satisfied evaluation the
// conditions stay satisfied. Returns the receiver for chaining.
func (c *Conditions) PassOnce() *Conditions {
	c.passOnce = true
	return c
}

// WithText sets the display text. Returns the receiver for chaining.
func (c *Conditions) WithText(text string) *Conditions {
	c.text = text
	return c
}

// Latch marks a pass-once condition as already satisfied, restoring persisted
// progress into a freshly built tree. No effect without PassOnce.
func (c *Conditions) Latch() {
	if c.passOnce {
		c.passed = true
	}
}

// Latched reports whether the pass-once latch has been set.
func (c *Conditions) Latched() bool {
	return c.passOnce && c.passed
}

// Check evaluates the children in declaration order with short-circuiting.
func (c *Conditions) Check(s *gamestate.Snapshot) bool {
	if c.passOnce && c.passed {
		return true
	}

	var result bool
	switch c.logic {
	case LogicAnd:
		result = true
		for _, child := range c.children {
			if !child.Check(s) {
				result = false
				break
			}
		}
	case LogicOr, LogicNor:
		result = false
		for _, child := range c.children {
			if child.Check(s) {
				result = true
				break
			}
		}
		if c.logic == LogicNor {
			result = !result
		}
	default:
		result = false
	}

	if c.negated {
		result = !result
	}
	if c.passOnce && result {
		c.passed = true
	}
	return result
}

// DisplayText returns the configured text, or a description assembled from
// the children.
func (c *Conditions) DisplayText() string {
	if c.text != "" {
		return c.text
	}
	parts := make([]string, 0, len(c.children))
	for _, child := range c.children {
		parts = append(parts, child.DisplayText())
	}
	var sep string
	switch c.logic {
	case LogicAnd:
		sep = " and "
	case LogicOr:
		sep = " or "
	case LogicNor:
		sep = " nor "
	}
	text := strings.Join(parts, sep)
	if c.negated {
		text = "not (" + text + ")"
	}
	return text
}
