package ai

import (
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Thresholds of the ally priority list.
const (
	potionThreshold    = 0.25
	healSpellThreshold = 0.50
	manaThreshold      = 0.30
)

// Spell scores; higher is preferred.
const (
	scoreDisadvantaged  = 0
	scoreOffensive      = 1
	scoreSingleTarget   = 2
	scoreSuperEffective = 3
)

// AllyController drives the ally and, under autoplay, the player.
//
// Decisions follow a fixed priority: toggle upkeep, HP warnings, signature,
// healing, mana, then combat.
type AllyController struct {
	logger *zap.Logger
}

var _ combat.Controller = (*AllyController)(nil)

// NewAllyController returns an AllyController.
func NewAllyController(logger *zap.Logger) *AllyController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllyController{logger: logger}
}

// Decide implements combat.Controller.
func (c *AllyController) Decide(enc *combat.Encounter, actor *combat.Combatant) (combat.Intent, bool) {
	if actor.Incapacitated() {
		return combat.Wait(), true
	}
	if in, ok := dropToggle(enc, actor); ok {
		return in, true
	}
	enc.WarnHP(actor)
	if in, ok := useSignature(enc, actor); ok {
		c.logger.Debug("ally uses signature", zap.String("actor", actor.ID))
		return in, true
	}
	if in, ok := heal(enc, actor); ok {
		return in, true
	}
	if actor.MaxMP > 0 && float64(actor.MP) < manaThreshold*float64(actor.MaxMP) {
		if id, ok := pickPotion(enc, actor, inventory.KindManaPotion, actor.MaxMP-actor.MP); ok {
			return combat.UseItem(id, ""), true
		}
	}
	return fight(enc, actor), true
}

// dropToggle switches off the first active toggle whose MP floor is no longer met.
func dropToggle(enc *combat.Encounter, actor *combat.Combatant) (combat.Intent, bool) {
	ids := make([]string, 0, len(actor.Flags.Toggles))
	for id, on := range actor.Flags.Toggles {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		sk, ok := enc.Rules().Skill(id)
		if !ok || sk.MinMP <= 0 || actor.MP >= sk.MinMP {
			continue
		}
		if actor.Class != nil && actor.Class.Signature == id {
			return combat.Signature("", grid.Unplaced), true
		}
		return combat.UseSkill(id, "", grid.Unplaced), true
	}
	return combat.Intent{}, false
}

// useSignature fires a once-per-encounter signature when its kind has a use right now.
func useSignature(enc *combat.Encounter, actor *combat.Combatant) (combat.Intent, bool) {
	if actor.Class == nil || actor.Class.Signature == "" {
		return combat.Intent{}, false
	}
	sk, ok := enc.Rules().Skill(actor.Class.Signature)
	if !ok || !sk.OncePerEncounter || enc.CanUseSkill(actor, sk.ID) != nil {
		return combat.Intent{}, false
	}
	hostiles := enc.Hostiles(actor)
	if len(hostiles) == 0 {
		return combat.Intent{}, false
	}
	switch sk.Kind {
	case ruleset.SkillPowerStrike, ruleset.SkillKnockbackStrike:
		t := combat.Nearest(actor, hostiles)
		if actor.Pos.Distance(t.Pos) <= enc.WeaponRange(actor) {
			return combat.Signature(t.ID, grid.Unplaced), true
		}
	case ruleset.SkillWarCry:
		return combat.Signature("", grid.Unplaced), true
	case ruleset.SkillHealSelf:
		if actor.MissingHP() > potionThreshold {
			return combat.Signature("", grid.Unplaced), true
		}
	case ruleset.SkillSummonDrone:
		for _, d := range enc.Drones(actor.ID) {
			if d.IsAlive() {
				return combat.Intent{}, false
			}
		}
		if cell, ok := freeNeighbour(enc, actor); ok {
			return combat.Signature("", cell), true
		}
	case ruleset.SkillToggle:
		if !actor.Flags.Toggles[sk.ID] && actor.MP >= sk.MinMP {
			return combat.Signature("", grid.Unplaced), true
		}
	}
	return combat.Intent{}, false
}

// heal drinks the cheapest sufficient health potion when actor is missing more
// than a quarter of its HP, and otherwise casts the strongest affordable healing
// spell on whichever of actor and the player is missing more than half.
func heal(enc *combat.Encounter, actor *combat.Combatant) (combat.Intent, bool) {
	if actor.MissingHP() > potionThreshold {
		if id, ok := pickPotion(enc, actor, inventory.KindHealthPotion, actor.MaxHP-actor.HP); ok {
			return combat.UseItem(id, ""), true
		}
	}
	var patient *combat.Combatant
	for _, c := range []*combat.Combatant{actor, enc.Player()} {
		if c == nil || !c.IsAlive() || c.MissingHP() <= healSpellThreshold {
			continue
		}
		if patient == nil || c.MissingHP() > patient.MissingHP() {
			patient = c
		}
	}
	if patient == nil {
		return combat.Intent{}, false
	}
	best, bestHeal := "", -1.0
	for _, id := range sortedSpells(actor) {
		sp, ok := enc.Rules().Spell(id)
		if !ok || sp.Kind != ruleset.SpellHeal || enc.CanCast(actor, id, patient.ID) != nil {
			continue
		}
		if h := expectedHeal(sp, actor.Spells[id]); h > bestHeal {
			best, bestHeal = id, h
		}
	}
	if best == "" {
		return combat.Intent{}, false
	}
	return combat.Cast(best, patient.ID), true
}

// pickPotion returns the held potion of kind with the smallest amount that
// covers missing, or the largest one when none covers it.
func pickPotion(enc *combat.Encounter, actor *combat.Combatant, kind inventory.ItemKind, missing int) (string, bool) {
	var cover, largest *inventory.ItemDef
	for _, id := range sortedItems(actor) {
		def, ok := enc.Items().Item(id)
		if !ok || def.Kind != kind {
			continue
		}
		if def.Amount >= missing && (cover == nil || def.Amount < cover.Amount) {
			cover = def
		}
		if largest == nil || def.Amount > largest.Amount {
			largest = def
		}
	}
	switch {
	case cover != nil:
		return cover.ID, true
	case largest != nil:
		return largest.ID, true
	}
	return "", false
}

func expectedHeal(sp *ruleset.SpellDef, tier int) float64 {
	expr, err := dice.Parse(sp.Dice)
	if err != nil {
		return 0
	}
	if tier > 1 {
		expr = expr.WithExtraDice(tier - 1)
	}
	return float64(expr.Count)*float64(expr.Sides+1)/2 + float64(expr.Modifier)
}

// fight attacks the marked target if it lives, else the nearest hostile.
// The class archetype decides between weapon and spell when both reach.
func fight(enc *combat.Encounter, actor *combat.Combatant) combat.Intent {
	t := living(enc, actor.Flags.MarkedTarget)
	if t == nil || !actor.Hostile(t) {
		t = combat.Nearest(actor, enc.Hostiles(actor))
	}
	if t == nil {
		return combat.Wait()
	}
	reach := enc.WeaponRange(actor)
	melee := actor.Pos.Distance(t.Pos) <= reach
	spell, score := BestSpell(enc, actor, t)
	cast := combat.Cast(spell, t.ID)

	archetype := ruleset.ArchetypeMelee
	if actor.Class != nil {
		archetype = actor.Class.Archetype
	}
	switch {
	case spell == "":
	case archetype == ruleset.ArchetypeCaster && (score > scoreDisadvantaged || !melee):
		return cast
	case archetype == ruleset.ArchetypeHybrid && score == scoreSuperEffective:
		return cast
	case !melee:
		return cast
	}
	return approach(enc, actor, t, reach, combat.Attack(t.ID))
}

// BestSpell returns the highest-scoring offensive spell actor can cast at
// target right now, and its score. Ties keep the alphabetically first spell.
//
// Postcondition: returns ("", -1) when no offensive spell is castable.
func BestSpell(enc *combat.Encounter, actor, target *combat.Combatant) (string, int) {
	best, bestScore := "", -1
	for _, id := range sortedSpells(actor) {
		sp, ok := enc.Rules().Spell(id)
		if !ok || !sp.Offensive() || enc.CanCast(actor, id, target.ID) != nil {
			continue
		}
		if s := SpellScore(sp, target.Affinity); s > bestScore {
			best, bestScore = id, s
		}
	}
	return best, bestScore
}

// SpellScore grades sp against a defender with affinity.
func SpellScore(sp *ruleset.SpellDef, affinity ruleset.Element) int {
	switch ruleset.EffectivenessOf(sp.Element, affinity) {
	case ruleset.SuperEffective:
		return scoreSuperEffective
	case ruleset.Resisted:
		return scoreDisadvantaged
	}
	if sp.SingleTarget() {
		return scoreSingleTarget
	}
	return scoreOffensive
}

func sortedSpells(c *combat.Combatant) []string {
	ids := make([]string, 0, len(c.Spells))
	for id := range c.Spells {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedItems(c *combat.Combatant) []string {
	ids := make([]string, 0, len(c.Items))
	for id, n := range c.Items {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
