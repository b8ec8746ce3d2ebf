package quest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/zone"
)

func loadFixture(t *testing.T) *Quest {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "mountain_pass.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	q, err := Load(f)
	if err != nil {
		t.Fatalf("failed to compile fixture quest: %v", err)
	}
	return q
}

func TestCompileFixture(t *testing.T) {
	q := loadFixture(t)
	if q.Name != "The Mountain Pass" {
		t.Errorf("unexpected quest name %q", q.Name)
	}
	if len(q.RequiredItems()) != 2 {
		t.Errorf("expected 2 required items, got %d", len(q.RequiredItems()))
	}
	if len(q.GeneralRequirements()) != 1 {
		t.Errorf("expected 1 general requirement, got %d", len(q.GeneralRequirements()))
	}
}

func TestNextInstructionFollowsProgress(t *testing.T) {
	q := loadFixture(t)

	tests := []struct {
		name     string
		setup    func(*gamestate.Snapshot)
		expected string
	}{
		{
			name:     "no progress, outside guardhouse",
			setup:    func(s *gamestate.Snapshot) {},
			expected: "Enter the guardhouse south of the pass.",
		},
		{
			name: "no progress, inside guardhouse",
			setup: func(s *gamestate.Snapshot) {
				s.Position = zone.NewWorldPoint(2900, 3560, 0)
			},
			expected: "Talk to the guard captain in the guardhouse.",
		},
		{
			name: "upstairs still counts as the guardhouse",
			setup: func(s *gamestate.Snapshot) {
				s.Position = zone.NewWorldPoint(2900, 3560, 1)
			},
			expected: "Talk to the guard captain in the guardhouse.",
		},
		{
			name: "climb stage without gear",
			setup: func(s *gamestate.Snapshot) {
				s.Varbits[2310] = 10
			},
			expected: "Buy climbing boots and bring a rope.",
		},
		{
			name: "climb stage fully geared",
			setup: func(s *gamestate.Snapshot) {
				s.Varbits[2310] = 10
				s.Equipment = []gamestate.ItemStack{{ID: 3105, Quantity: 1}}
				s.Inventory = []gamestate.ItemStack{{ID: 954, Quantity: 1}}
				s.Skills["agility"] = gamestate.SkillLevel{Base: 20, Boosted: 20}
			},
			expected: "Climb the rockslide at the pass.",
		},
		{
			name: "boots in inventory do not count as equipped",
			setup: func(s *gamestate.Snapshot) {
				s.Varbits[2310] = 10
				s.Inventory = []gamestate.ItemStack{
					{ID: 3105, Quantity: 1},
					{ID: 954, Quantity: 1},
				}
				s.Skills["agility"] = gamestate.SkillLevel{Base: 20, Boosted: 20}
			},
			expected: "Buy climbing boots and bring a rope.",
		},
		{
			name: "locked climb step advances to the cave",
			setup: func(s *gamestate.Snapshot) {
				s.Varbits[2310] = 10
				s.Varbits[2311] = 1
			},
			expected: "Head north to the cave entrance.",
		},
		{
			name: "cave stage inside the cave",
			setup: func(s *gamestate.Snapshot) {
				s.Varbits[2310] = 30
				s.Position = zone.NewWorldPoint(2270, 4755, 0)
			},
			expected: "Search the crates for the map half.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := gamestate.New()
			tt.setup(s)
			in, done := q.NextInstruction(s)
			if done {
				t.Fatal("quest should not be done")
			}
			if in == nil || in.Text != tt.expected {
				t.Errorf("NextInstruction() = %v, want %q", in, tt.expected)
			}
		})
	}
}

func TestNextInstructionDone(t *testing.T) {
	q := loadFixture(t)
	s := gamestate.New()
	s.Varbits[2310] = 60

	in, done := q.NextInstruction(s)
	if !done {
		t.Error("quest at completion value should be done")
	}
	if in != nil {
		t.Errorf("done quest should yield no instruction, got %v", in)
	}
}

func TestCompileErrors(t *testing.T) {
	base := func() *Definition {
		return &Definition{
			Name:     "Broken",
			Progress: ProgressDef{Varbit: 1, Complete: 10},
			Steps: map[string]StepDef{
				"start": {Text: "Start."},
			},
			Sequence: map[string]string{"0": "start"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"missing name", func(d *Definition) { d.Name = "" }},
		{"no progress counter", func(d *Definition) { d.Progress.Varbit = 0 }},
		{"both progress counters", func(d *Definition) { d.Progress.Varplayer = 5 }},
		{"no completion value", func(d *Definition) { d.Progress.Complete = 0 }},
		{"empty sequence", func(d *Definition) { d.Sequence = nil }},
		{"sequence key not a number", func(d *Definition) { d.Sequence = map[string]string{"start": "start"} }},
		{"sequence references unknown step", func(d *Definition) { d.Sequence = map[string]string{"0": "missing"} }},
		{"unknown required item", func(d *Definition) { d.RequiredItems = []string{"missing"} }},
		{"unknown general requirement", func(d *Definition) { d.GeneralRequirements = []string{"missing"} }},
		{
			"step with text and branches",
			func(d *Definition) {
				d.Steps["start"] = StepDef{
					Text:     "Start.",
					Default:  &StepRef{Name: "start"},
					Branches: []BranchDef{},
				}
			},
		},
		{
			"branch references unknown requirement",
			func(d *Definition) {
				d.Steps["cond"] = StepDef{
					Default:  &StepRef{Name: "start"},
					Branches: []BranchDef{{When: "missing", Then: StepRef{Name: "start"}}},
				}
				d.Sequence["10"] = "cond"
			},
		},
		{
			"requirement with unknown type",
			func(d *Definition) {
				d.Requirements = map[string]RequirementDef{"bad": {Type: "telepathy"}}
				d.GeneralRequirements = []string{"bad"}
			},
		},
		{
			"composite references unknown child",
			func(d *Definition) {
				d.Requirements = map[string]RequirementDef{
					"combo": {Type: "all", Of: []string{"missing"}},
				}
				d.GeneralRequirements = []string{"combo"}
			},
		},
		{
			"requirement cycle",
			func(d *Definition) {
				d.Requirements = map[string]RequirementDef{
					"a": {Type: "all", Of: []string{"b"}},
					"b": {Type: "any", Of: []string{"a"}},
				}
				d.GeneralRequirements = []string{"a"}
			},
		},
		{
			"step cycle",
			func(d *Definition) {
				d.Steps["loop"] = StepDef{
					Default: &StepRef{Name: "loop"},
				}
				d.Sequence["10"] = "loop"
			},
		},
		{
			"invalid varbit operation",
			func(d *Definition) {
				d.Requirements = map[string]RequirementDef{
					"bad": {Type: "varbit", ID: 1, Value: 2, Op: "between"},
				}
				d.GeneralRequirements = []string{"bad"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.mutate(d)
			if _, err := Compile(d); err == nil {
				t.Error("expected compilation to fail")
			}
		})
	}
}

func TestPassOnceLatchCarriesAcrossCompiles(t *testing.T) {
	def := func() *Definition {
		return &Definition{
			Name:     "Latched",
			Progress: ProgressDef{Varbit: 1, Complete: 10},
			Requirements: map[string]RequirementDef{
				"heard_rumor": {Type: "dialog", Text: "strange lights"},
				"briefed":     {Type: "any", Of: []string{"heard_rumor"}, PassOnce: true},
			},
			Steps: map[string]StepDef{
				"start": {
					Default: &StepRef{Inline: &StepDef{Text: "Ask around town."}},
					Branches: []BranchDef{
						{When: "briefed", Then: StepRef{Inline: &StepDef{Text: "Investigate the lights."}}},
					},
				},
			},
			Sequence: map[string]string{"0": "start"},
		}
	}

	q, err := Compile(def())
	if err != nil {
		t.Fatal(err)
	}

	s := gamestate.New()
	s.DialogLog = []string{"Elder: we saw strange lights over the marsh."}
	in, _ := q.NextInstruction(s)
	if in == nil || in.Text != "Investigate the lights." {
		t.Fatalf("NextInstruction() = %v, want the briefed branch", in)
	}
	if got := q.LatchedNames(); len(got) != 1 || got[0] != "briefed" {
		t.Fatalf("LatchedNames() = %v, want [briefed]", got)
	}

	// A fresh compile of the same definition knows nothing; restoring the
	// recorded names carries the latch over even though the dialog line is
	// gone from the snapshot.
	fresh, err := Compile(def())
	if err != nil {
		t.Fatal(err)
	}
	fresh.RestoreLatches([]string{"briefed"})
	in, _ = fresh.NextInstruction(gamestate.New())
	if in == nil || in.Text != "Investigate the lights." {
		t.Errorf("NextInstruction() after restore = %v, want the briefed branch", in)
	}

	// Unknown names are ignored.
	fresh.RestoreLatches([]string{"gone"})
}

func TestCompileSharedRequirementMemoized(t *testing.T) {
	d := &Definition{
		Name:     "Shared",
		Progress: ProgressDef{Varbit: 1, Complete: 10},
		Requirements: map[string]RequirementDef{
			"flag": {Type: "varbit", ID: 2, Value: 1, Op: "eq"},
			"a":    {Type: "all", Of: []string{"flag"}},
			"b":    {Type: "any", Of: []string{"flag"}},
		},
		Steps: map[string]StepDef{
			"start": {Text: "Start."},
		},
		Sequence:            map[string]string{"0": "start"},
		GeneralRequirements: []string{"a", "b", "flag"},
	}

	q, err := Compile(d)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.GeneralRequirements()) != 3 {
		t.Fatalf("expected 3 general requirements, got %d", len(q.GeneralRequirements()))
	}

	s := gamestate.New()
	s.Varbits[2] = 1
	for i, r := range q.GeneralRequirements() {
		if !r.Check(s) {
			t.Errorf("requirement %d should pass with the flag set", i)
		}
	}
}
