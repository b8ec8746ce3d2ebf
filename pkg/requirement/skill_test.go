package requirement

import (
	"testing"

	"github.com/halgrim/quest-guide/pkg/gamestate"
)

func snapshotWithSkill(name string, base, boosted int) *gamestate.Snapshot {
	s := gamestate.New()
	s.Skills[name] = gamestate.SkillLevel{Base: base, Boosted: boosted}
	return s
}

func TestSkillRequirementCheck(t *testing.T) {
	tests := []struct {
		name      string
		base      int
		boosted   int
		required  int
		boostable bool
		expected  bool
	}{
		{"base meets requirement", 60, 60, 60, false, true},
		{"base below requirement", 50, 50, 60, false, false},
		{"boost ignored when not boostable", 50, 65, 60, false, false},
		{"boost counts when boostable", 50, 65, 60, true, true},
		{"boost still short", 50, 55, 60, true, false},
		{"drained level does not hurt boostable check", 60, 55, 60, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewSkillRequirement("agility", tt.required, OpGreaterEqual)
			if err != nil {
				t.Fatal(err)
			}
			if tt.boostable {
				r.Boostable()
			}
			s := snapshotWithSkill("agility", tt.base, tt.boosted)
			if got := r.Check(s); got != tt.expected {
				t.Errorf("Check() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSkillRequirementMissingSkill(t *testing.T) {
	r, err := NewSkillRequirement("slayer", 10, OpGreaterEqual)
	if err != nil {
		t.Fatal(err)
	}
	if r.Check(gamestate.New()) {
		t.Error("unknown skill should fail closed")
	}
	if r.Check(nil) {
		t.Error("nil snapshot should fail closed")
	}
}

func TestSkillRequirementCheckBoosted(t *testing.T) {
	tests := []struct {
		name      string
		base      int
		boosted   int
		required  int
		boostable bool
		expected  BoostStatus
	}{
		{"passes on base", 60, 60, 60, true, BoostPass},
		{"passes on current boost", 50, 65, 60, true, BoostPass},
		// Herblore's best consumable boost is +6.
		{"reachable with a consumable", 55, 55, 60, true, BoostCanPass},
		{"out of consumable reach", 40, 40, 60, true, BoostFail},
		{"not boostable and short", 55, 55, 60, false, BoostFail},
		{"not boostable but meets base", 60, 60, 60, false, BoostPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewSkillRequirement("herblore", tt.required, OpGreaterEqual)
			if err != nil {
				t.Fatal(err)
			}
			if tt.boostable {
				r.Boostable()
			}
			s := snapshotWithSkill("herblore", tt.base, tt.boosted)
			if got := r.CheckBoosted(s); got != tt.expected {
				t.Errorf("CheckBoosted() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSkillRequirementDisplayText(t *testing.T) {
	r, err := NewSkillRequirement("herblore", 60, OpGreaterEqual)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.DisplayText(); got != "60 Herblore" {
		t.Errorf("DisplayText() = %q, want %q", got, "60 Herblore")
	}
	if got := r.Boostable().DisplayText(); got != "60 Herblore (boostable)" {
		t.Errorf("DisplayText() = %q, want %q", got, "60 Herblore (boostable)")
	}
}

func TestOperationCompare(t *testing.T) {
	tests := []struct {
		op       Operation
		a, b     int
		expected bool
	}{
		{OpEqual, 5, 5, true},
		{OpEqual, 5, 6, false},
		{OpNotEqual, 5, 6, true},
		{OpGreaterEqual, 5, 5, true},
		{OpGreaterEqual, 4, 5, false},
		{OpLessEqual, 5, 5, true},
		{OpLessEqual, 6, 5, false},
		{OpGreater, 6, 5, true},
		{OpGreater, 5, 5, false},
		{OpLess, 4, 5, true},
		{OpLess, 5, 5, false},
		{Operation("bogus"), 5, 5, false},
	}

	for _, tt := range tests {
		if got := tt.op.Compare(tt.a, tt.b); got != tt.expected {
			t.Errorf("%q.Compare(%d, %d) = %v, want %v", tt.op, tt.a, tt.b, got, tt.expected)
		}
	}
}
