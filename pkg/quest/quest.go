// Package quest loads declarative quest definitions and compiles them into
// immutable requirement/step trees. A definition is pure data: named zones,
// items, requirements and steps wired together by reference; the compiler
// resolves the references bottom-up and rejects anything malformed before a
// quest is ever evaluated.
package quest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/requirement"
	"github.com/halgrim/quest-guide/pkg/step"
)

// Definition is the on-disk JSON form of a quest walkthrough.
type Definition struct {
	Name        string `json:"name"`
	FileName    string `json:"file_name,omitempty"`
	Description string `json:"description,omitempty"`

	Progress ProgressDef `json:"progress"`

	Zones        map[string]ZoneDef        `json:"zones,omitempty"`
	Items        map[string]ItemDef        `json:"items,omitempty"`
	Requirements map[string]RequirementDef `json:"requirements,omitempty"`
	Steps        map[string]StepDef        `json:"steps"`

	// Sequence maps progress counter values to step names. The step for the
	// highest value not exceeding the current progress is shown.
	Sequence map[string]string `json:"sequence"`

	// RequiredItems and GeneralRequirements are quest-wide advisory lists
	// shown in the overview panel; they never gate resolution.
	RequiredItems       []string `json:"required_items,omitempty"`
	GeneralRequirements []string `json:"general_requirements,omitempty"`
}

// ProgressDef names the counter that tracks quest progress. Exactly one of
// Varbit or Varplayer must be set.
type ProgressDef struct {
	Varbit    int `json:"varbit,omitempty"`
	Varplayer int `json:"varplayer,omitempty"`
	Complete  int `json:"complete"`
}

// ZoneDef is an axis-aligned box given by two corner tiles [x, y, plane].
type ZoneDef struct {
	Min [3]int `json:"min"`
	Max [3]int `json:"max"`
}

// ItemDef describes an item check shared by requirements and steps.
type ItemDef struct {
	Name      string `json:"name"`
	IDs       []int  `json:"ids"`
	Quantity  int    `json:"quantity,omitempty"`
	Equipped  bool   `json:"equipped,omitempty"`
	CheckBank bool   `json:"check_bank,omitempty"`
}

// RequirementDef is one named requirement. Kind selects the variant; the
// remaining fields are interpreted per kind.
type RequirementDef struct {
	Type    string `json:"type"`
	Display string `json:"display,omitempty"`

	// item / item_on_tile
	Item   string  `json:"item,omitempty"`
	ItemID int     `json:"item_id,omitempty"`
	Tile   *[3]int `json:"tile,omitempty"`

	// zone
	Zones   []string `json:"zones,omitempty"`
	Outside bool     `json:"outside,omitempty"`

	// varbit / varplayer / varplayer_bit
	ID    int                   `json:"id,omitempty"`
	Value int                   `json:"value,omitempty"`
	Op    requirement.Operation `json:"op,omitempty"`
	Bit   int                   `json:"bit,omitempty"`
	Set   *bool                 `json:"set,omitempty"`

	// skill
	Skill     string `json:"skill,omitempty"`
	Level     int    `json:"level,omitempty"`
	Boostable bool   `json:"boostable,omitempty"`

	// chat / dialog / widget
	Text  string `json:"text,omitempty"`
	Group int    `json:"group,omitempty"`
	Child int    `json:"child,omitempty"`

	// npc
	NpcID int `json:"npc_id,omitempty"`

	// all / any / none composites
	Of       []string `json:"of,omitempty"`
	Negate   bool     `json:"negate,omitempty"`
	PassOnce bool     `json:"pass_once,omitempty"`
}

// StepDef is one named step. A leaf step has text; a conditional step has a
// default and branches.
type StepDef struct {
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`

	Default  *StepRef    `json:"default,omitempty"`
	Locking  string      `json:"locking,omitempty"`
	Branches []BranchDef `json:"branches,omitempty"`
}

// BranchDef pairs a requirement name with the step it selects.
type BranchDef struct {
	When string  `json:"when"`
	Then StepRef `json:"then"`
}

// StepRef points at a step either by name or as an inline definition.
type StepRef struct {
	Name   string
	Inline *StepDef
}

// UnmarshalJSON accepts either a step name string or an inline step object.
func (r *StepRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Name = name
		return nil
	}
	var def StepDef
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	r.Inline = &def
	return nil
}

// MarshalJSON writes the name form when set, the inline form otherwise.
func (r StepRef) MarshalJSON() ([]byte, error) {
	if r.Name != "" {
		return json.Marshal(r.Name)
	}
	return json.Marshal(r.Inline)
}

type sequenceEntry struct {
	from int
	step step.Step
}

// Quest is a compiled, immutable walkthrough ready for evaluation.
type Quest struct {
	Name        string
	Description string

	progressVarbit    int
	progressVarplayer int
	complete          int

	sequence []sequenceEntry

	requiredItems []requirement.Requirement
	generalReqs   []requirement.Requirement

	// latches holds the named pass-once conditions in this tree, so latched
	// progress can be carried across recompilations of the same quest.
	latches map[string]*requirement.Conditions
}

// RestoreLatches marks the named pass-once requirements as already satisfied.
// Unknown names are ignored; the quest definition may have changed since the
// names were recorded.
func (q *Quest) RestoreLatches(names []string) {
	for _, name := range names {
		if c, ok := q.latches[name]; ok {
			c.Latch()
		}
	}
}

// LatchedNames returns the names of pass-once requirements that have latched,
// sorted for stable persistence.
func (q *Quest) LatchedNames() []string {
	var names []string
	for name, c := range q.latches {
		if c.Latched() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RequiredItems returns the quest-wide advisory item requirements.
func (q *Quest) RequiredItems() []requirement.Requirement { return q.requiredItems }

// GeneralRequirements returns the quest-wide advisory requirements
// (skill levels and similar).
func (q *Quest) GeneralRequirements() []requirement.Requirement { return q.generalReqs }

// Progress reads the quest's progress counter from the snapshot. A counter
// the provider has not reported reads as zero.
func (q *Quest) Progress(s *gamestate.Snapshot) int {
	if q.progressVarbit != 0 {
		v, _ := s.Varbit(q.progressVarbit)
		return v
	}
	v, _ := s.Varplayer(q.progressVarplayer)
	return v
}

// Done reports whether the progress counter has reached the completion value.
func (q *Quest) Done(s *gamestate.Snapshot) bool {
	return q.Progress(s) >= q.complete
}

// NextInstruction resolves the single instruction to show for the current
// state. It selects the sequence step for the current progress value, then
// walks forward past any steps whose locking conditions already mark them
// complete, so the caller always gets exactly one instruction unless the
// quest is done.
func (q *Quest) NextInstruction(s *gamestate.Snapshot) (*step.Instruction, bool) {
	if q.Done(s) {
		return nil, true
	}

	progress := q.Progress(s)
	idx := 0
	for i, entry := range q.sequence {
		if entry.from > progress {
			break
		}
		idx = i
	}

	for ; idx < len(q.sequence); idx++ {
		if in := q.sequence[idx].step.Resolve(s); in != nil {
			return in, false
		}
	}
	return nil, true
}

// validate checks the definition shape before compilation.
func (d *Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("quest definition needs a name")
	}
	if (d.Progress.Varbit == 0) == (d.Progress.Varplayer == 0) {
		return fmt.Errorf("quest %q: progress needs exactly one of varbit or varplayer", d.Name)
	}
	if d.Progress.Complete <= 0 {
		return fmt.Errorf("quest %q: progress needs a positive completion value", d.Name)
	}
	if len(d.Sequence) == 0 {
		return fmt.Errorf("quest %q: sequence must not be empty", d.Name)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("quest %q: steps must not be empty", d.Name)
	}
	return nil
}

// sortedSequence parses and orders the sequence entries by progress value.
func sortedSequence(d *Definition) ([]struct {
	from int
	name string
}, error) {
	entries := make([]struct {
		from int
		name string
	}, 0, len(d.Sequence))
	for key, name := range d.Sequence {
		from, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("quest %q: sequence key %q is not a number", d.Name, key)
		}
		entries = append(entries, struct {
			from int
			name string
		}{from, name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].from < entries[j].from })
	return entries, nil
}
