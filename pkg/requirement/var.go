package requirement

import (
	"fmt"

	"github.com/halgrim/quest-guide/pkg/gamestate"
)

// VarbitRequirement compares a varbit counter against a value. A counter the
// state provider has not reported evaluates false.
type VarbitRequirement struct {
	id    int
	value int
	op    Operation
}

// NewVarbitRequirement creates a varbit comparison. An empty operation
// defaults to equality.
func NewVarbitRequirement(id, value int, op Operation) (*VarbitRequirement, error) {
	if op == "" {
		op = OpEqual
	}
	if !op.Valid() {
		return nil, fmt.Errorf("varbit %d: invalid operation %q", id, op)
	}
	return &VarbitRequirement{id: id, value: value, op: op}, nil
}

func (r *VarbitRequirement) Check(s *gamestate.Snapshot) bool {
	actual, ok := s.Varbit(r.id)
	if !ok {
		return false
	}
	return r.op.Compare(actual, r.value)
}

func (r *VarbitRequirement) DisplayText() string {
	return fmt.Sprintf("varbit %d %s %d", r.id, r.op, r.value)
}

// VarplayerRequirement compares a varplayer counter against a value, or
// tests a single bit of it. Bit tests are how achievement-diary style
// progress packs many booleans into one counter.
type VarplayerRequirement struct {
	id    int
	value int
	op    Operation

	bitTest     bool
	bitPosition int
	bitSet      bool
}

// NewVarplayerRequirement creates a varplayer comparison. An empty operation
// defaults to equality.
func NewVarplayerRequirement(id, value int, op Operation) (*VarplayerRequirement, error) {
	if op == "" {
		op = OpEqual
	}
	if !op.Valid() {
		return nil, fmt.Errorf("varplayer %d: invalid operation %q", id, op)
	}
	return &VarplayerRequirement{id: id, value: value, op: op}, nil
}

// NewVarplayerBitRequirement creates a check on one bit of a varplayer
// counter: satisfied when the bit's state equals set.
func NewVarplayerBitRequirement(id, bitPosition int, set bool) (*VarplayerRequirement, error) {
	if bitPosition < 0 || bitPosition > 31 {
		return nil, fmt.Errorf("varplayer %d: bit position %d out of range", id, bitPosition)
	}
	return &VarplayerRequirement{id: id, bitTest: true, bitPosition: bitPosition, bitSet: set}, nil
}

func (r *VarplayerRequirement) Check(s *gamestate.Snapshot) bool {
	actual, ok := s.Varplayer(r.id)
	if !ok {
		return false
	}
	if r.bitTest {
		return (actual&(1<<r.bitPosition) != 0) == r.bitSet
	}
	return r.op.Compare(actual, r.value)
}

func (r *VarplayerRequirement) DisplayText() string {
	if r.bitTest {
		state := "set"
		if !r.bitSet {
			state = "clear"
		}
		return fmt.Sprintf("varplayer %d bit %d %s", r.id, r.bitPosition, state)
	}
	return fmt.Sprintf("varplayer %d %s %d", r.id, r.op, r.value)
}
