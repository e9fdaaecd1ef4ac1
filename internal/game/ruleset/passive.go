package ruleset

import "fmt"

// Passive is a capability granted by a class or race that plugs into the damage
// pipeline, movement or probability rolls.
type Passive string

const (
	// PassiveHeavyHands upgrades the damage die size by 2.
	PassiveHeavyHands Passive = "heavy_hands"
	// PassiveSteady rewrites rolled 1s to 2s.
	PassiveSteady Passive = "steady"
	// PassiveLongReach adds 1 to weapon range.
	PassiveLongReach Passive = "long_reach"
	// PassiveManaEfficiency reduces spell MP cost by 2.
	PassiveManaEfficiency Passive = "mana_efficiency"
	// PassivePrismatic grants +20% on the first use of each element in an encounter.
	PassivePrismatic Passive = "prismatic"
	PassiveBladeMastery   Passive = "blade_mastery"
	PassiveBruteForce     Passive = "brute_force"
	PassiveMarksman       Passive = "marksman"
	PassivePyromancer     Passive = "pyromancer"
	PassiveCryomancer     Passive = "cryomancer"
	PassiveStormcaller    Passive = "stormcaller"
	PassiveCombo          Passive = "combo"
	PassiveCharge         Passive = "charge"
	PassiveOverdrive      Passive = "overdrive"
	PassiveArmorBreak     Passive = "armor_break"
	PassiveAmbush         Passive = "ambush"
	PassiveLifesteal      Passive = "lifesteal"
	PassiveFollowThrough  Passive = "follow_through"
	// PassiveLucky adds 5 percentage points to every effect roll of its owner.
	PassiveLucky Passive = "lucky"
	// PassiveAdaptable grants one reroll on failed effect rolls.
	PassiveAdaptable Passive = "adaptable"
)

var knownPassives = map[Passive]bool{
	PassiveHeavyHands: true, PassiveSteady: true, PassiveLongReach: true,
	PassiveManaEfficiency: true, PassivePrismatic: true, PassiveBladeMastery: true,
	PassiveBruteForce: true, PassiveMarksman: true, PassivePyromancer: true,
	PassiveCryomancer: true, PassiveStormcaller: true, PassiveCombo: true,
	PassiveCharge: true, PassiveOverdrive: true, PassiveArmorBreak: true,
	PassiveAmbush: true, PassiveLifesteal: true, PassiveFollowThrough: true,
	PassiveLucky: true, PassiveAdaptable: true,
}

// Validate reports an error for an unknown passive.
func (p Passive) Validate() error {
	if !knownPassives[p] {
		return fmt.Errorf("unknown passive %q", p)
	}
	return nil
}

// PassiveSet is the set of passives a combatant carries.
type PassiveSet map[Passive]bool

// NewPassiveSet builds a set from ps.
func NewPassiveSet(ps ...Passive) PassiveSet {
	s := make(PassiveSet, len(ps))
	for _, p := range ps {
		s[p] = true
	}
	return s
}

// Has reports whether p is in the set. A nil set has nothing.
func (s PassiveSet) Has(p Passive) bool {
	return s[p]
}

// Add inserts every p.
func (s PassiveSet) Add(ps ...Passive) {
	for _, p := range ps {
		s[p] = true
	}
}
