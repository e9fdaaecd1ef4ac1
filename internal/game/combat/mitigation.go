package combat

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Mitigation is the hand-off from the damage pipeline to the target.
type Mitigation struct {
	Raw           int
	Element       ruleset.Element
	ArmorPierce   int
	IgnoreDefense bool
	Knockback     int
	Melee         bool
}

// MitigationResult is what the target's defenses let through.
type MitigationResult struct {
	Dealt     int
	Knockback int
	Reflected int
	Dodged    bool
	Blocked   bool
}

// Mitigator owns a target's defenses.
type Mitigator interface {
	Mitigate(e *Encounter, target *Combatant, m Mitigation) MitigationResult
}

const (
	dodgePerDex    = 0.01
	dodgeCap       = 0.30
	defaultReflect = 0.30
)

// DefaultMitigator applies dodge, elemental resistance, shield block, guard,
// reflect and defense in that order.
type DefaultMitigator struct{}

// Mitigate implements Mitigator.
//
// Postcondition: Dealt >= 0; a hit with positive Raw that is not dodged deals at least 1.
func (DefaultMitigator) Mitigate(e *Encounter, t *Combatant, m Mitigation) MitigationResult {
	res := MitigationResult{Knockback: m.Knockback}
	if m.Raw <= 0 {
		res.Knockback = 0
		return res
	}
	dodge := dodgePerDex * float64(t.Stats.Dexterity)
	if t.Equipment.Armor != nil {
		dodge += t.Equipment.Armor.Dodge
	}
	dodge = math.Min(dodge, dodgeCap)
	if e.deps.Chance.RollFor(dodge, t.ChancePassive()) {
		return MitigationResult{Dodged: true}
	}

	dmg := float64(m.Raw)
	if t.Equipment.Armor != nil && m.Element.IsMagical() && t.Equipment.Armor.Resists(m.Element) {
		dmg /= 2
	}
	if sh := t.Equipment.Shield; sh != nil && sh.BlockChance > 0 && e.deps.Chance.RollFor(sh.BlockChance, t.ChancePassive()) {
		res.Blocked = true
		dmg *= 1 - sh.BlockReduction
		res.Knockback = 0
	}
	if g := t.Statuses.Magnitude(status.Guarded); g > 0 && g < 1 {
		dmg *= 1 - g
	}
	if !m.IgnoreDefense {
		def := t.Stats.Defense - m.ArmorPierce
		if t.Equipment.Armor != nil {
			def += t.Equipment.Armor.Defense
		}
		if def > 0 {
			dmg -= float64(def)
		}
	}
	res.Dealt = int(math.Floor(dmg))
	if res.Dealt < 1 {
		res.Dealt = 1
	}
	if eff, ok := t.Statuses.Get(status.Reflect); ok {
		frac := eff.Magnitude
		if frac <= 0 {
			frac = defaultReflect
		}
		res.Reflected = int(math.Floor(float64(res.Dealt) * frac))
	}
	return res
}
