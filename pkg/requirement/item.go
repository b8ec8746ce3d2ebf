package requirement

import (
	"fmt"

	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/zone"
)

// ItemRequirement checks that the player holds an item. Any of the accepted
// IDs satisfies it (quest items often have charged or cosmetic variants).
// By default both inventory and worn equipment count as held.
type ItemRequirement struct {
	name      string
	ids       []int
	quantity  int
	equipped  bool // must be worn, inventory does not count
	checkBank bool // banked items also count
}

// NewItemRequirement creates an item check for the given IDs. Quantity
// defaults to 1 when zero or negative.
func NewItemRequirement(name string, quantity int, ids ...int) (*ItemRequirement, error) {
	if name == "" {
		return nil, fmt.Errorf("item requirement needs a display name")
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("item requirement %q needs at least one item ID", name)
	}
	if quantity <= 0 {
		quantity = 1
	}
	return &ItemRequirement{name: name, ids: ids, quantity: quantity}, nil
}

// Equipped requires the item to be worn. Returns the receiver for chaining.
func (r *ItemRequirement) Equipped() *ItemRequirement {
	r.equipped = true
	return r
}

// AlsoCheckBank counts banked items towards the quantity. Returns the
// receiver for chaining.
func (r *ItemRequirement) AlsoCheckBank() *ItemRequirement {
	r.checkBank = true
	return r
}

// Check reports whether enough of the item is held.
func (r *ItemRequirement) Check(s *gamestate.Snapshot) bool {
	if s == nil {
		return false
	}
	total := 0
	for _, id := range r.ids {
		if r.equipped {
			total += gamestate.CountItems(s.Equipment, id)
		} else {
			total += gamestate.CountItems(s.Inventory, id)
			total += gamestate.CountItems(s.Equipment, id)
		}
		if r.checkBank {
			total += gamestate.CountItems(s.Bank, id)
		}
	}
	return total >= r.quantity
}

// DisplayText returns the item name, with the quantity when more than one
// is needed.
func (r *ItemRequirement) DisplayText() string {
	text := r.name
	if r.quantity > 1 {
		text = fmt.Sprintf("%d x %s", r.quantity, r.name)
	}
	if r.equipped {
		text += " (equipped)"
	}
	return text
}

// ItemOnTileRequirement checks that an item is lying on the ground, either
// anywhere nearby or on one specific tile.
type ItemOnTileRequirement struct {
	itemID int
	tile   *zone.WorldPoint // nil matches any tile
}

// NewItemOnTileRequirement creates a ground-item check matching any tile.
func NewItemOnTileRequirement(itemID int) *ItemOnTileRequirement {
	return &ItemOnTileRequirement{itemID: itemID}
}

// NewItemOnTileAtRequirement creates a ground-item check for one tile.
func NewItemOnTileAtRequirement(itemID int, tile zone.WorldPoint) *ItemOnTileRequirement {
	return &ItemOnTileRequirement{itemID: itemID, tile: &tile}
}

func (r *ItemOnTileRequirement) Check(s *gamestate.Snapshot) bool {
	if s == nil {
		return false
	}
	for _, gi := range s.GroundItems {
		if gi.ItemID != r.itemID {
			continue
		}
		if r.tile == nil || *r.tile == gi.Tile {
			return true
		}
	}
	return false
}

func (r *ItemOnTileRequirement) DisplayText() string {
	if r.tile != nil {
		return fmt.Sprintf("item %d on tile %s", r.itemID, r.tile)
	}
	return fmt.Sprintf("item %d on the ground", r.itemID)
}
