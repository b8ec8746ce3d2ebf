package quest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/halgrim/quest-guide/pkg/requirement"
	"github.com/halgrim/quest-guide/pkg/step"
	"github.com/halgrim/quest-guide/pkg/zone"
)

// Load decodes a quest definition and compiles it.
func Load(r io.Reader) (*Quest, error) {
	var def Definition
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to decode quest definition: %w", err)
	}
	return Compile(&def)
}

// Compile builds the immutable engine tree from a definition. All name
// references are resolved bottom-up; unknown names, reference cycles and
// invalid parameters abort compilation so a broken quest never reaches
// evaluation.
func Compile(def *Definition) (*Quest, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}

	c := &compiler{
		def:           def,
		zones:         make(map[string]zone.Zone),
		items:         make(map[string]*requirement.ItemRequirement),
		reqs:          make(map[string]requirement.Requirement),
		steps:         make(map[string]step.Step),
		latches:       make(map[string]*requirement.Conditions),
		visitingReqs:  make(map[string]bool),
		visitingSteps: make(map[string]bool),
	}

	for name, zd := range def.Zones {
		c.zones[name] = zone.New(
			zone.NewWorldPoint(zd.Min[0], zd.Min[1], zd.Min[2]),
			zone.NewWorldPoint(zd.Max[0], zd.Max[1], zd.Max[2]),
		)
	}

	for name, id := range def.Items {
		item, err := compileItem(name, id)
		if err != nil {
			return nil, fmt.Errorf("quest %q: %w", def.Name, err)
		}
		c.items[name] = item
	}

	q := &Quest{
		Name:              def.Name,
		Description:       def.Description,
		progressVarbit:    def.Progress.Varbit,
		progressVarplayer: def.Progress.Varplayer,
		complete:          def.Progress.Complete,
	}

	entries, err := sortedSequence(def)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		st, err := c.step(e.name)
		if err != nil {
			return nil, fmt.Errorf("quest %q: %w", def.Name, err)
		}
		q.sequence = append(q.sequence, sequenceEntry{from: e.from, step: st})
	}

	for _, name := range def.RequiredItems {
		item, ok := c.items[name]
		if !ok {
			return nil, fmt.Errorf("quest %q: unknown required item %q", def.Name, name)
		}
		q.requiredItems = append(q.requiredItems, item)
	}
	for _, name := range def.GeneralRequirements {
		r, err := c.requirement(name)
		if err != nil {
			return nil, fmt.Errorf("quest %q: %w", def.Name, err)
		}
		q.generalReqs = append(q.generalReqs, r)
	}

	q.latches = c.latches
	return q, nil
}

type compiler struct {
	def     *Definition
	zones   map[string]zone.Zone
	items   map[string]*requirement.ItemRequirement
	reqs    map[string]requirement.Requirement
	steps   map[string]step.Step
	latches map[string]*requirement.Conditions

	visitingReqs  map[string]bool
	visitingSteps map[string]bool
}

func compileItem(name string, def ItemDef) (*requirement.ItemRequirement, error) {
	display := def.Name
	if display == "" {
		display = name
	}
	item, err := requirement.NewItemRequirement(display, def.Quantity, def.IDs...)
	if err != nil {
		return nil, fmt.Errorf("item %q: %w", name, err)
	}
	if def.Equipped {
		item.Equipped()
	}
	if def.CheckBank {
		item.AlsoCheckBank()
	}
	return item, nil
}

// requirement resolves a named requirement, memoizing the result and
// rejecting reference cycles.
func (c *compiler) requirement(name string) (requirement.Requirement, error) {
	if r, ok := c.reqs[name]; ok {
		return r, nil
	}
	if item, ok := c.items[name]; ok {
		return item, nil
	}
	if c.visitingReqs[name] {
		return nil, fmt.Errorf("requirement %q references itself", name)
	}
	def, ok := c.def.Requirements[name]
	if !ok {
		return nil, fmt.Errorf("unknown requirement %q", name)
	}

	c.visitingReqs[name] = true
	r, err := c.compileRequirement(name, def)
	delete(c.visitingReqs, name)
	if err != nil {
		return nil, err
	}
	c.reqs[name] = r
	return r, nil
}

func (c *compiler) compileRequirement(name string, def RequirementDef) (requirement.Requirement, error) {
	switch def.Type {
	case "item":
		item, ok := c.items[def.Item]
		if !ok {
			return nil, fmt.Errorf("requirement %q: unknown item %q", name, def.Item)
		}
		return item, nil

	case "item_on_tile":
		if def.Tile != nil {
			t := zone.NewWorldPoint(def.Tile[0], def.Tile[1], def.Tile[2])
			return requirement.NewItemOnTileAtRequirement(def.ItemID, t), nil
		}
		return requirement.NewItemOnTileRequirement(def.ItemID), nil

	case "zone":
		zones := make([]zone.Zone, 0, len(def.Zones))
		for _, zn := range def.Zones {
			z, ok := c.zones[zn]
			if !ok {
				return nil, fmt.Errorf("requirement %q: unknown zone %q", name, zn)
			}
			zones = append(zones, z)
		}
		r, err := requirement.NewZoneRequirement(def.Display, zones...)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		if def.Outside {
			r.Inverted()
		}
		return r, nil

	case "varbit":
		r, err := requirement.NewVarbitRequirement(def.ID, def.Value, def.Op)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		return r, nil

	case "varplayer":
		r, err := requirement.NewVarplayerRequirement(def.ID, def.Value, def.Op)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		return r, nil

	case "varplayer_bit":
		set := true
		if def.Set != nil {
			set = *def.Set
		}
		r, err := requirement.NewVarplayerBitRequirement(def.ID, def.Bit, set)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		return r, nil

	case "skill":
		r, err := requirement.NewSkillRequirement(def.Skill, def.Level, def.Op)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		if def.Boostable {
			r.Boostable()
		}
		if def.Display != "" {
			r.WithText(def.Display)
		}
		return r, nil

	case "chat":
		r, err := requirement.NewChatMessageRequirement(def.Text)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		return r, nil

	case "dialog":
		r, err := requirement.NewDialogRequirement(def.Text)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		return r, nil

	case "widget":
		r, err := requirement.NewWidgetTextRequirement(def.Group, def.Child, def.Text)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		return r, nil

	case "npc":
		return requirement.NewNpcInteractingRequirement(def.NpcID), nil

	case "all", "any", "none":
		children := make([]requirement.Requirement, 0, len(def.Of))
		for _, childName := range def.Of {
			child, err := c.requirement(childName)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		logic := map[string]requirement.LogicType{
			"all":  requirement.LogicAnd,
			"any":  requirement.LogicOr,
			"none": requirement.LogicNor,
		}[def.Type]
		cond, err := requirement.NewConditions(logic, children...)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", name, err)
		}
		if def.Negate {
			cond.Negated()
		}
		if def.PassOnce {
			cond.PassOnce()
			c.latches[name] = cond
		}
		if def.Display != "" {
			cond.WithText(def.Display)
		}
		return cond, nil

	default:
		return nil, fmt.Errorf("requirement %q: unknown type %q", name, def.Type)
	}
}

// step resolves a named step, memoizing the result and rejecting cycles.
func (c *compiler) step(name string) (step.Step, error) {
	if st, ok := c.steps[name]; ok {
		return st, nil
	}
	if c.visitingSteps[name] {
		return nil, fmt.Errorf("step %q references itself", name)
	}
	def, ok := c.def.Steps[name]
	if !ok {
		return nil, fmt.Errorf("unknown step %q", name)
	}

	c.visitingSteps[name] = true
	st, err := c.compileStep(name, &def)
	delete(c.visitingSteps, name)
	if err != nil {
		return nil, err
	}
	c.steps[name] = st
	return st, nil
}

func (c *compiler) stepRef(parent string, ref *StepRef) (step.Step, error) {
	if ref.Inline != nil {
		return c.compileStep(parent+" (inline)", ref.Inline)
	}
	if ref.Name == "" {
		return nil, fmt.Errorf("step %q: empty step reference", parent)
	}
	return c.step(ref.Name)
}

func (c *compiler) compileStep(name string, def *StepDef) (step.Step, error) {
	isLeaf := def.Text != ""
	isConditional := def.Default != nil || len(def.Branches) > 0
	if isLeaf == isConditional {
		return nil, fmt.Errorf("step %q: need either text or default+branches, not both", name)
	}

	if isLeaf {
		items := make([]requirement.Requirement, 0, len(def.Items))
		for _, itemName := range def.Items {
			item, ok := c.items[itemName]
			if !ok {
				return nil, fmt.Errorf("step %q: unknown item %q", name, itemName)
			}
			items = append(items, item)
		}
		return step.NewDetailedStep(def.Text, items...), nil
	}

	if def.Default == nil {
		return nil, fmt.Errorf("step %q: conditional step needs a default", name)
	}
	fallback, err := c.stepRef(name, def.Default)
	if err != nil {
		return nil, err
	}
	cond, err := step.NewConditionalStep(fallback)
	if err != nil {
		return nil, fmt.Errorf("step %q: %w", name, err)
	}

	if def.Locking != "" {
		lock, err := c.requirement(def.Locking)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", name, err)
		}
		cond.SetLockingCondition(lock)
	}

	for i, b := range def.Branches {
		when, err := c.requirement(b.When)
		if err != nil {
			return nil, fmt.Errorf("step %q branch %d: %w", name, i, err)
		}
		then, err := c.stepRef(name, &b.Then)
		if err != nil {
			return nil, fmt.Errorf("step %q branch %d: %w", name, i, err)
		}
		if err := cond.AddStep(when, then); err != nil {
			return nil, fmt.Errorf("step %q branch %d: %w", name, i, err)
		}
	}

	return cond, nil
}
