// Package gamestate defines the read-only snapshot of player and world state
// that requirements are evaluated against. A snapshot is captured by an
// external state provider (the game client plugin) and passed explicitly into
// every evaluation call; nothing in this package mutates it.
package gamestate

import "github.com/halgrim/quest-guide/pkg/zone"

// ItemStack is a quantity of a single item type in a container.
type ItemStack struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// SkillLevel holds the base and temporarily boosted level of one skill.
type SkillLevel struct {
	Base    int `json:"base"`
	Boosted int `json:"boosted"`
}

// NPC is a nearby non-player character.
type NPC struct {
	ID          int  `json:"id"`
	Interacting bool `json:"interacting"` // currently interacting with the player
}

// GroundItem is an item lying on a world tile.
type GroundItem struct {
	ItemID int             `json:"item_id"`
	Tile   zone.WorldPoint `json:"tile"`
}

// Snapshot is a capture of the observable game state at one instant.
// Requirements treat it as read-only; missing data evaluates as absent
// rather than erroring.
type Snapshot struct {
	Position    zone.WorldPoint       `json:"position"`
	Inventory   []ItemStack           `json:"inventory,omitempty"`
	Equipment   []ItemStack           `json:"equipment,omitempty"`
	Bank        []ItemStack           `json:"bank,omitempty"`
	Skills      map[string]SkillLevel `json:"skills,omitempty"`
	Varbits     map[int]int           `json:"varbits,omitempty"`
	Varplayers  map[int]int           `json:"varplayers,omitempty"`
	ChatLog     []string              `json:"chat_log,omitempty"`    // recent chat box lines, oldest first
	DialogLog   []string              `json:"dialog_log,omitempty"`  // recent NPC dialog lines, oldest first
	WidgetText  map[string]string     `json:"widget_text,omitempty"` // keyed "group:child"
	NPCs        []NPC                 `json:"npcs,omitempty"`
	GroundItems []GroundItem          `json:"ground_items,omitempty"`
}

// New returns an empty snapshot with all lookup maps initialized.
func New() *Snapshot {
	return &Snapshot{
		Skills:     make(map[string]SkillLevel),
		Varbits:    make(map[int]int),
		Varplayers: make(map[int]int),
		WidgetText: make(map[string]string),
	}
}

// CountItems sums the quantity of an item ID across the given stacks.
// A stack with quantity zero counts as one, matching containers that report
// unstackable items without an explicit count.
func CountItems(stacks []ItemStack, id int) int {
	total := 0
	for _, st := range stacks {
		if st.ID != id {
			continue
		}
		if st.Quantity <= 0 {
			total++
		} else {
			total += st.Quantity
		}
	}
	return total
}

// Varbit returns the value of a varbit counter and whether it is present.
func (s *Snapshot) Varbit(id int) (int, bool) {
	if s == nil || s.Varbits == nil {
		return 0, false
	}
	v, ok := s.Varbits[id]
	return v, ok
}

// Varplayer returns the value of a varplayer counter and whether it is present.
func (s *Snapshot) Varplayer(id int) (int, bool) {
	if s == nil || s.Varplayers == nil {
		return 0, false
	}
	v, ok := s.Varplayers[id]
	return v, ok
}

// Skill returns the level pair for a skill and whether it is known.
func (s *Snapshot) Skill(name string) (SkillLevel, bool) {
	if s == nil || s.Skills == nil {
		return SkillLevel{}, false
	}
	lvl, ok := s.Skills[name]
	return lvl, ok
}
