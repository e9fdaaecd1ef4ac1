package combat

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Pipeline constants. Each probability cap is specific to its effect.
const (
	critBase          = 0.05
	critPerLuck       = 0.01
	critCap           = 0.50
	overdriveChance   = 0.10
	armorBreakPerTier = 0.05
	armorBreakCap     = 0.25
	comboStep         = 0.10
	comboMaxStacks    = 3
	chargeBonus       = 1.25
	chargeMinTiles    = 2
	weaponClassBonus  = 1.15
	elementBonus      = 1.20
	prismaticBonus    = 1.20
)

// DefaultModifiers returns the standard pipeline in application order.
func DefaultModifiers() []Modifier {
	return []Modifier{
		RollBase,
		EnchantmentDice,
		StatScaling,
		ElementalMultiplier,
		ClassPassives,
		SkillMultiplier,
		ComboStacks,
		ChargeBonus,
		ToggleMultipliers,
		PrismaticBonus,
		WeakenedPenalty,
		CriticalHit,
		Overdrive,
		ArmorBreak,
	}
}

var weaponClassPassives = map[ruleset.Passive][]inventory.WeaponClass{
	ruleset.PassiveBladeMastery: {inventory.ClassSword, inventory.ClassDagger},
	ruleset.PassiveBruteForce:   {inventory.ClassAxe, inventory.ClassHammer},
	ruleset.PassiveMarksman:     {inventory.ClassBow},
}

var elementPassives = map[ruleset.Passive]ruleset.Element{
	ruleset.PassivePyromancer:  ruleset.ElementFire,
	ruleset.PassiveCryomancer:  ruleset.ElementIce,
	ruleset.PassiveStormcaller: ruleset.ElementLightning,
}

// RollBase rolls the weapon or spell dice. Spells add one die per tier above 1.
// A hit that arrives with Damage already set is left alone.
func RollBase(e *Encounter, h Hit) Hit {
	if h.Damage > 0 || len(h.Roll.Dice) > 0 {
		return h
	}
	if h.Expr.IsZero() {
		var raw string
		switch {
		case h.Spell != nil:
			raw = h.Spell.Dice
		case h.Item != nil:
			raw = h.Item.Dice
		case h.Weapon != nil:
			raw = h.Weapon.DamageDice
		}
		expr, err := dice.Parse(raw)
		if err != nil {
			return h
		}
		h.Expr = expr
	}
	if h.Spell != nil && h.Tier > 1 {
		h.Expr = h.Expr.WithExtraDice(h.Tier - 1)
	}
	var rules []dice.FaceRule
	if a := h.Attacker; a != nil && h.Source != SourceItem {
		if a.Passives.Has(ruleset.PassiveHeavyHands) {
			h.Expr = h.Expr.WithUpgradedDie(2)
		}
		if a.Passives.Has(ruleset.PassiveSteady) {
			rules = append(rules, dice.RaiseOnes)
		}
	}
	h.Roll = e.deps.Dice.Roll(h.Expr, rules...)
	h.Damage = h.Roll.Total()
	return h
}

// EnchantmentDice adds the weapon's enchantment roll and a 1d4 affinity bonus
// when the hit's element matches the attacker's affinity.
func EnchantmentDice(e *Encounter, h Hit) Hit {
	if h.Source == SourceWeapon && h.Weapon != nil && h.Weapon.Enchantment != "" {
		if expr, err := dice.Parse(h.Weapon.Enchantment); err == nil {
			h.Damage += e.deps.Dice.Roll(expr).Total()
		}
	}
	if a := h.Attacker; a != nil && h.Element.IsMagical() && h.Element == a.Affinity {
		h.Damage += e.deps.Dice.RollDice(1, 4).Total()
	}
	return h
}

// statBonus selects Strength for melee, Dexterity for bows and daggers, and
// Intelligence for spells. Items do not scale.
func statBonus(h Hit) int {
	a := h.Attacker
	if a == nil {
		return 0
	}
	switch h.Source {
	case SourceSpell:
		return a.Stats.Intelligence
	case SourceWeapon:
		if h.Weapon != nil && h.Weapon.Class.Finesse() {
			return a.Stats.Dexterity
		}
		return a.Stats.Strength
	}
	return 0
}

// StatScaling applies floor(roll * (1 + stat/20)) + floor(stat/5).
func StatScaling(_ *Encounter, h Hit) Hit {
	s := float64(statBonus(h))
	if s == 0 {
		return h
	}
	h.Damage = int(math.Floor(float64(h.Damage)*(1+s/20))) + int(math.Floor(s/5))
	if h.Damage < 0 {
		h.Damage = 0
	}
	return h
}

// ElementalMultiplier draws 1.25 to 1.50 for super effective hits and 0.50 to
// 0.75 for resisted ones.
func ElementalMultiplier(e *Encounter, h Hit) Hit {
	if h.Target == nil {
		return h
	}
	switch ruleset.EffectivenessOf(h.Element, h.Target.Affinity) {
	case ruleset.SuperEffective:
		h.Multiplier *= e.deps.Chance.Pick(1.25, 1.50)
	case ruleset.Resisted:
		h.Multiplier *= e.deps.Chance.Pick(0.50, 0.75)
	}
	return h
}

// ClassPassives applies weapon-class (+15%) and element-class (+20%) passives.
func ClassPassives(_ *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil {
		return h
	}
	if h.Source == SourceWeapon && h.Weapon != nil {
		for p, classes := range weaponClassPassives {
			if !a.Passives.Has(p) {
				continue
			}
			for _, c := range classes {
				if c == h.Weapon.Class {
					h.Multiplier *= weaponClassBonus
				}
			}
		}
	}
	for p, el := range elementPassives {
		if a.Passives.Has(p) && h.Element == el {
			h.Multiplier *= elementBonus
		}
	}
	return h
}

// SkillMultiplier consumes the one-shot multiplier set by a power strike.
func SkillMultiplier(_ *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil || h.Source != SourceWeapon || a.Scratch.AttackMultiplier == 0 {
		return h
	}
	h.Multiplier *= a.Scratch.AttackMultiplier
	a.Scratch.AttackMultiplier = 0
	return h
}

// ComboStacks grants 10% per stack, up to 3, for consecutive weapon hits on the
// same target. Changing target resets the stacks.
func ComboStacks(_ *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil || h.Target == nil || h.Source != SourceWeapon || h.FollowThrough || !a.Passives.Has(ruleset.PassiveCombo) {
		return h
	}
	if a.Flags.ComboTarget != h.Target.ID {
		a.Flags.ComboTarget = h.Target.ID
		a.Stacks["combo"] = 0
	}
	h.Multiplier *= 1 + comboStep*float64(a.Stacks["combo"])
	if a.Stacks["combo"] < comboMaxStacks {
		a.Stacks["combo"]++
	}
	return h
}

// ChargeBonus grants +25% when the attacker's last move covered at least two
// tiles. The tiles-moved counter is cleared by any weapon hit.
func ChargeBonus(_ *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil || h.Source != SourceWeapon || h.FollowThrough {
		return h
	}
	if a.Passives.Has(ruleset.PassiveCharge) && a.Scratch.TilesMoved >= chargeMinTiles {
		h.Multiplier *= chargeBonus
	}
	a.Scratch.TilesMoved = 0
	return h
}

// ToggleMultipliers adds the multiplier of every active toggle.
func ToggleMultipliers(e *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil {
		return h
	}
	for id, on := range a.Flags.Toggles {
		if !on {
			continue
		}
		if sk, ok := e.deps.Rules.Skill(id); ok && sk.Multiplier > 0 {
			h.Multiplier *= 1 + sk.Multiplier
		}
	}
	return h
}

// PrismaticBonus grants +20% the first time each element is used this encounter.
func PrismaticBonus(_ *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil || !h.Element.IsMagical() {
		return h
	}
	if !a.Flags.ElementsUsed[h.Element] && a.Passives.Has(ruleset.PassivePrismatic) {
		h.Multiplier *= prismaticBonus
	}
	a.Flags.ElementsUsed[h.Element] = true
	return h
}

// WeakenedPenalty scales damage down by the Weakened magnitude.
func WeakenedPenalty(_ *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil {
		return h
	}
	if m := a.Statuses.Magnitude(status.Weakened); m > 0 && m < 1 {
		h.Multiplier *= 1 - m
	}
	return h
}

// CriticalHit rolls 5% + 1% per Luck, capped at 50%. An attacker with the
// ambush passive who is at full HP and undamaged crits automatically.
func CriticalHit(e *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil || h.Source == SourceItem {
		return h
	}
	ambush := a.Passives.Has(ruleset.PassiveAmbush) && a.HP == a.MaxHP && !a.Flags.DamageTaken
	if !ambush {
		c := critBase + critPerLuck*float64(a.Stats.Luck)
		if c > critCap {
			c = critCap
		}
		if !e.deps.Chance.RollFor(c, a.ChancePassive()) {
			return h
		}
	}
	mult := e.opts.CritMultiplier
	if h.Weapon != nil && h.Source == SourceWeapon && h.Weapon.CritMultiplier > mult {
		mult = h.Weapon.CritMultiplier
	}
	h.Crit = true
	h.Multiplier *= mult
	return h
}

// Overdrive doubles damage on a 10% roll at the cost of 10% of max HP.
func Overdrive(e *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil || h.Source == SourceItem || !a.Passives.Has(ruleset.PassiveOverdrive) {
		return h
	}
	if !e.deps.Chance.RollFor(overdriveChance, a.ChancePassive()) {
		return h
	}
	h.Overdrive = true
	h.Multiplier *= 2
	h.SelfDamage = a.MaxHP / 10
	if h.SelfDamage < 1 {
		h.SelfDamage = 1
	}
	return h
}

// ArmorBreak ignores defense with chance min(5% x tier, 25%).
func ArmorBreak(e *Encounter, h Hit) Hit {
	a := h.Attacker
	if a == nil || h.Source != SourceWeapon || !a.Passives.Has(ruleset.PassiveArmorBreak) {
		return h
	}
	tier := h.Tier
	if tier < 1 {
		tier = 1
	}
	c := math.Min(armorBreakPerTier*float64(tier), armorBreakCap)
	if e.deps.Chance.RollFor(c, a.ChancePassive()) {
		h.IgnoreDefense = true
	}
	return h
}
