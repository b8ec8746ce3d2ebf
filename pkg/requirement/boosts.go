package requirement

// Highest level gain obtainable from a consumable boost, per skill. Flat
// values; boosts that scale with base level are recorded at their cap.
// Skills without an entry cannot be boosted by consumables.
var consumableBoosts = map[string]int{
	"attack":       19,
	"strength":     19,
	"defence":      19,
	"ranged":       13,
	"magic":        10,
	"prayer":       2,
	"agility":      5,
	"herblore":     6,
	"thieving":     5,
	"crafting":     4,
	"fletching":    5,
	"slayer":       5,
	"hunter":       5,
	"mining":       4,
	"smithing":     4,
	"fishing":      5,
	"cooking":      6,
	"firemaking":   5,
	"woodcutting":  4,
	"farming":      5,
	"construction": 8,
	"runecraft":    5,
}

// highestBoost returns the largest level gain a consumable can give for the
// skill at the given base level. Zero means the skill cannot be boosted.
func highestBoost(skill string, baseLevel int) int {
	boost, ok := consumableBoosts[skill]
	if !ok || baseLevel <= 0 {
		return 0
	}
	return boost
}
