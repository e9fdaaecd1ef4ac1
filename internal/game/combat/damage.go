package combat

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/chance"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// HitSource names what produced a hit.
type HitSource int

const (
	SourceWeapon HitSource = iota
	SourceSpell
	SourceItem
)

// Hit carries one damage instance through the pipeline.
type Hit struct {
	Attacker *Combatant
	Target   *Combatant
	Source   HitSource
	Weapon   *inventory.WeaponDef
	Spell    *ruleset.SpellDef
	Item     *inventory.ItemDef
	Tier     int
	Element  ruleset.Element

	// Expr is the base roll; Roll holds its faces once rolled.
	Expr dice.Expression
	Roll dice.RollResult
	// Damage is the scaled integer damage before multiplicative modifiers.
	Damage int
	// Multiplier accumulates the ordered multiplicative modifiers.
	Multiplier float64
	// Scale is applied last for splash, chain and follow-through hits; 0 means 1.
	Scale float64

	Crit          bool
	Overdrive     bool
	SelfDamage    int
	ArmorPierce   int
	IgnoreDefense bool
	Knockback     int
	// FollowThrough marks a follow-through strike, which never chains.
	FollowThrough bool

	// Raw is the final pre-mitigation damage.
	Raw int
}

// Melee reports whether the hit was a weapon strike at close quarters.
func (h Hit) Melee() bool {
	return h.Source == SourceWeapon && h.Weapon != nil && h.Weapon.IsMelee()
}

// Modifier is one pure stage of the damage pipeline.
type Modifier func(e *Encounter, h Hit) Hit

// DamageCalculator composes an ordered list of modifiers.
type DamageCalculator struct {
	modifiers []Modifier
}

// NewDamageCalculator returns a calculator running mods in order.
func NewDamageCalculator(mods ...Modifier) *DamageCalculator {
	return &DamageCalculator{modifiers: mods}
}

// Compute runs every modifier over h and returns it with Raw set.
//
// Postcondition: Raw >= 0.
func (c *DamageCalculator) Compute(e *Encounter, h Hit) Hit {
	if h.Multiplier == 0 {
		h.Multiplier = 1
	}
	for _, m := range c.modifiers {
		h = m(e, h)
	}
	scale := h.Scale
	if scale == 0 {
		scale = 1
	}
	h.Raw = int(math.Floor(float64(h.Damage) * h.Multiplier * scale))
	if h.Raw < 0 {
		h.Raw = 0
	}
	return h
}

// HitResult reports what landing a hit did.
type HitResult struct {
	Raw       int
	Dealt     int
	Reflected int
	Dodged    bool
	Blocked   bool
	Crit      bool
	Killed    bool
	Knockback *grid.KnockbackResult
}

// Land resolves a computed hit against its target: mitigation, HP loss and
// post-hit triggers. A target already at 0 HP is not struck again.
//
// Precondition: h.Raw has been computed, or set directly by the caller.
// Postcondition: 0 <= Target.HP <= Target.MaxHP and likewise for the attacker.
func (e *Encounter) Land(h Hit) HitResult {
	t := h.Target
	res := HitResult{Raw: h.Raw, Crit: h.Crit}
	if t == nil || t.HP <= 0 {
		return res
	}
	mit := t.Mitigator
	if mit == nil {
		mit = DefaultMitigator{}
	}
	m := mit.Mitigate(e, t, Mitigation{
		Raw:           h.Raw,
		Element:       h.Element,
		ArmorPierce:   h.ArmorPierce,
		IgnoreDefense: h.IgnoreDefense,
		Knockback:     h.Knockback,
		Melee:         h.Melee(),
	})
	res.Dodged, res.Blocked = m.Dodged, m.Blocked
	res.Dealt = t.ApplyDamage(m.Dealt)
	res.Killed = t.HP <= 0

	attackerName := "something"
	if h.Attacker != nil {
		attackerName = h.Attacker.Name
	}
	switch {
	case m.Dodged:
		e.logf(CategoryCombat, "%s dodges %s", t.Name, attackerName)
	case h.Crit:
		e.logf(CategoryCombat, "%s critically hits %s for %d", attackerName, t.Name, res.Dealt)
	default:
		e.logf(CategoryCombat, "%s hits %s for %d", attackerName, t.Name, res.Dealt)
	}
	e.timeline.Append(StepHit, actorID(h.Attacker), t.Pos, "hit")

	a := h.Attacker
	if a != nil && a.HP > 0 {
		if m.Reflected > 0 {
			res.Reflected = a.ApplyDamage(m.Reflected)
			e.logf(CategoryCombat, "%s reflects %d back at %s", t.Name, res.Reflected, a.Name)
		}
		if h.Overdrive && h.SelfDamage > 0 && a.HP > 1 {
			self := h.SelfDamage
			if self >= a.HP {
				self = a.HP - 1
			}
			a.ApplyDamage(self)
			e.logf(CategoryCombat, "%s's overdrive burns %d HP", a.Name, self)
		}
		if res.Dealt > 0 && a.Passives.Has(ruleset.PassiveLifesteal) && !t.Undead() {
			heal := res.Dealt / 5
			if heal < 1 {
				heal = 1
			}
			if got := a.Heal(heal); got > 0 {
				e.logf(CategoryCombat, "%s drains %d HP", a.Name, got)
			}
		}
	}
	if res.Dealt > 0 && t.HP > 0 {
		e.inflict(h)
	}
	if res.Dealt > 0 && a != nil {
		a.Stacks["hits_landed"]++
	}
	if res.Dealt > 0 && t.HP > 0 && m.Knockback > 0 && a != nil {
		kb := e.knockback(t, a.Pos, m.Knockback)
		res.Knockback = &kb
	}
	if !h.FollowThrough && h.Source == SourceWeapon && res.Dealt > 0 && t.HP > 0 && a != nil && a.HP > 0 &&
		a.Passives.Has(ruleset.PassiveFollowThrough) &&
		e.deps.Chance.RollFor(0.15, a.ChancePassive()) {
		follow := Hit{
			Attacker: a, Target: t, Source: SourceWeapon, Weapon: h.Weapon,
			Tier: h.Tier, Element: h.Element, Scale: 0.5, FollowThrough: true,
		}
		e.logf(CategoryCombat, "%s follows through", a.Name)
		e.Land(e.calc.Compute(e, follow))
	}
	if res.Killed {
		e.logf(CategoryCombat, "%s falls", t.Name)
	}
	return res
}

// inflict rolls the status carried by the hit's weapon or spell.
func (e *Encounter) inflict(h Hit) {
	var id status.ID
	var base float64
	var duration int
	var magnitude float64
	var perTick int
	switch {
	case h.Spell != nil && h.Spell.Status != "" && h.Spell.Kind != ruleset.SpellBuff:
		id, base, duration, magnitude, perTick = h.Spell.Status, h.Spell.StatusChance, h.Spell.StatusDuration, h.Spell.Magnitude, h.Spell.PerTick
	case h.Source == SourceWeapon && h.Weapon != nil && h.Weapon.Status != "":
		id, base, duration = h.Weapon.Status, h.Weapon.StatusChance, h.Weapon.StatusDuration
	default:
		return
	}
	def, ok := e.deps.Statuses.Get(id)
	if !ok {
		e.logf(CategorySystem, "unknown status %q", id)
		return
	}
	c := base
	if h.Tier > 1 {
		c += 0.05 * float64(h.Tier-1)
	}
	c = def.CapChance(c)
	var passive chance.Passive
	if h.Attacker != nil {
		passive = h.Attacker.ChancePassive()
	}
	if !e.deps.Chance.RollFor(c, passive) {
		return
	}
	e.applyStatus(h.Target, def, duration, magnitude, perTick)
}

func (e *Encounter) applyStatus(t *Combatant, def *status.Def, duration int, magnitude float64, perTick int) {
	if duration == 0 {
		duration = def.DefaultDuration
	}
	if duration == 0 {
		duration = 1
	}
	if err := t.Statuses.Apply(def, duration, magnitude, perTick); err != nil {
		e.logf(CategorySystem, "cannot apply %s: %v", def.ID, err)
		return
	}
	e.logf(CategoryStatus, "%s is %s", t.Name, def.Name)
}

func actorID(c *Combatant) string {
	if c == nil {
		return ""
	}
	return c.ID
}
