package requirement

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/halgrim/quest-guide/pkg/gamestate"
)

// BoostStatus is the advisory tri-state of a boost-aware skill check,
// used only for presentation (pass/boost/fail coloring), never for gating.
type BoostStatus int

const (
	BoostFail BoostStatus = iota
	BoostCanPass
	BoostPass
)

func (b BoostStatus) String() string {
	switch b {
	case BoostPass:
		return "pass"
	case BoostCanPass:
		return "boostable"
	default:
		return "fail"
	}
}

var titleCaser = cases.Title(language.English)

// SkillRequirement checks a skill level against a required level.
type SkillRequirement struct {
	skill        string
	level        int
	op           Operation
	canBeBoosted bool
	displayText  string
}

// NewSkillRequirement creates a skill level check. An empty operation
// defaults to greater-or-equal, by far the common case for quest
// requirements.
func NewSkillRequirement(skill string, level int, op Operation) (*SkillRequirement, error) {
	if skill == "" {
		return nil, fmt.Errorf("skill requirement needs a skill name")
	}
	if op == "" {
		op = OpGreaterEqual
	}
	if !op.Valid() {
		return nil, fmt.Errorf("skill %s: invalid operation %q", skill, op)
	}
	return &SkillRequirement{skill: skill, level: level, op: op}, nil
}

// Boostable allows temporary boosts to satisfy the requirement. Returns the
// receiver for chaining.
func (r *SkillRequirement) Boostable() *SkillRequirement {
	r.canBeBoosted = true
	return r
}

// WithText overrides the display text. Returns the receiver for chaining.
func (r *SkillRequirement) WithText(text string) *SkillRequirement {
	r.displayText = text
	return r
}

// Check compares the effective level against the required one. When the
// requirement can be boosted, the effective level is the higher of the base
// and currently boosted levels.
func (r *SkillRequirement) Check(s *gamestate.Snapshot) bool {
	lvl, ok := s.Skill(r.skill)
	if !ok {
		return false
	}
	effective := lvl.Base
	if r.canBeBoosted && lvl.Boosted > effective {
		effective = lvl.Boosted
	}
	return r.op.Compare(effective, r.level)
}

// CheckBoosted reports whether the requirement passes, could pass with the
// highest consumable boost available for the skill, or fails outright.
func (r *SkillRequirement) CheckBoosted(s *gamestate.Snapshot) BoostStatus {
	if r.Check(s) {
		return BoostPass
	}
	if !r.canBeBoosted {
		return BoostFail
	}
	lvl, ok := s.Skill(r.skill)
	if !ok {
		return BoostFail
	}
	boost := highestBoost(r.skill, lvl.Base)
	if boost > 0 && r.op.Compare(lvl.Base+boost, r.level) {
		return BoostCanPass
	}
	return BoostFail
}

func (r *SkillRequirement) DisplayText() string {
	text := r.displayText
	if text == "" {
		text = fmt.Sprintf("%d %s", r.level, titleCaser.String(r.skill))
	}
	if r.canBeBoosted {
		text += " (boostable)"
	}
	return text
}
