package requirement

import (
	"fmt"

	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/zone"
)

// ZoneRequirement checks the player's position against a set of zones.
// It is satisfied when the player stands inside any of them; inverted, when
// the player stands outside all of them.
type ZoneRequirement struct {
	name     string
	zones    []zone.Zone
	mustBeIn bool
}

// NewZoneRequirement creates a check that passes while the player is inside
// any of the given zones.
func NewZoneRequirement(name string, zones ...zone.Zone) (*ZoneRequirement, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("zone requirement %q needs at least one zone", name)
	}
	return &ZoneRequirement{name: name, zones: zones, mustBeIn: true}, nil
}

// Inverted flips the check: the player must be outside every zone.
// Returns the receiver for chaining.
func (r *ZoneRequirement) Inverted() *ZoneRequirement {
	r.mustBeIn = false
	return r
}

func (r *ZoneRequirement) Check(s *gamestate.Snapshot) bool {
	if s == nil {
		return false
	}
	for _, z := range r.zones {
		if z.Contains(s.Position) {
			return r.mustBeIn
		}
	}
	return !r.mustBeIn
}

func (r *ZoneRequirement) DisplayText() string {
	if r.name != "" {
		return r.name
	}
	if r.mustBeIn {
		return "in the required area"
	}
	return "outside the required area"
}
