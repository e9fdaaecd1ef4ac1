package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

const (
	autoReviveFraction = 0.5
	reviveItemFraction = 0.25
)

// CheckEnd is the encounter-end resolver. It processes deaths (revival,
// removal, rewards, release of swallowed victims) and decides the outcome.
// Victory takes precedence over a simultaneous defeat.
//
// Postcondition: once Ended() is true further calls change nothing.
func (e *Encounter) CheckEnd() Outcome {
	e.endChecks++
	if e.Ended() {
		return e.Outcome()
	}
	for _, c := range e.combatants {
		if !c.Swallowed() {
			continue
		}
		if sw, ok := e.Combatant(c.Flags.SwallowedBy); !ok || sw.HP <= 0 {
			e.freeSwallowed(c)
		}
	}
	for _, en := range e.Enemies() {
		if en.HP > 0 || e.revive(en) {
			continue
		}
		e.remove(en)
		e.reward(en)
	}
	for _, c := range e.Combatants() {
		if c.Role == RoleDrone && c.HP <= 0 {
			e.remove(c)
			e.logf(CategoryCombat, "%s is destroyed", c.Name)
		}
	}
	if ally := e.Ally(); ally != nil && ally.HP <= 0 && !ally.Flags.Fled {
		e.detach(ally)
		e.logf(CategoryCombat, "%s is knocked out and leaves the battle", ally.Name)
	}
	player := e.Player()
	if player != nil && player.HP <= 0 {
		e.useReviveItem(player)
	}
	switch {
	case len(e.Enemies()) == 0:
		e.finish(eventWin)
	case player != nil && player.HP <= 0:
		player.Flags.Defeated = true
		e.finish(eventLose)
	default:
		e.WarnHP(player)
	}
	return e.Outcome()
}

// revive brings a fallen enemy back when its traits allow.
func (e *Encounter) revive(c *Combatant) bool {
	if c.Statuses.Has(status.Sealed) {
		return false
	}
	switch {
	case c.Traits.AutoRevive && !c.Flags.Revived:
		c.Flags.Revived = true
	case c.Flags.ReviveChance > 0 && e.deps.Chance.RollForEffect(c.Flags.ReviveChance):
		c.Flags.ReviveChance /= 2
	default:
		return false
	}
	hp := int(float64(c.MaxHP) * autoReviveFraction)
	if hp < 1 {
		hp = 1
	}
	c.Heal(hp)
	e.logf(CategoryCombat, "%s rises again with %d HP", c.Name, c.HP)
	return true
}

func (e *Encounter) reward(c *Combatant) {
	if c.Rewards == nil {
		return
	}
	got := npc.GenerateRewards(*c.Rewards, e.deps.Chance.RollForEffect, e.deps.Dice)
	if got.IsEmpty() {
		return
	}
	r := Reward{EnemyID: c.ID, EnemyName: c.Name, Rewards: got}
	e.rewards = append(e.rewards, r)
	e.deps.Rewards.Reward(r)
	e.logger.Info("rewards granted",
		zap.String("enemy", c.ID),
		zap.Int("gold", got.Gold),
		zap.Int("xp", got.XP),
		zap.Int("items", len(got.Items)),
	)
	e.logf(CategoryReward, "%s drops %d gold and %d XP", c.Name, got.Gold, got.XP)
}

func (e *Encounter) useReviveItem(c *Combatant) bool {
	for _, def := range e.deps.Items.AllItems() {
		if def.Kind != inventory.KindRevive || c.Items[def.ID] <= 0 {
			continue
		}
		e.consume(c, def)
		hp := int(float64(c.MaxHP) * reviveItemFraction)
		if hp < 1 {
			hp = 1
		}
		c.Heal(hp)
		e.logf(CategoryCombat, "%s is revived with %d HP", c.Name, c.HP)
		return true
	}
	return false
}

// WarnHP emits the ≤50% and ≤10% HP warnings for c once per threshold
// crossing. Recovering above a threshold re-arms its warning.
func (e *Encounter) WarnHP(c *Combatant) {
	if c == nil || c.MaxHP == 0 {
		return
	}
	ratio := float64(c.HP) / float64(c.MaxHP)
	if ratio > 0.5 {
		c.Flags.WarnedHalf, c.Flags.WarnedCritical = false, false
		return
	}
	if ratio > 0.1 {
		c.Flags.WarnedCritical = false
	}
	if ratio <= 0.1 && !c.Flags.WarnedCritical {
		c.Flags.WarnedCritical, c.Flags.WarnedHalf = true, true
		e.logf(CategoryWarning, "%s is near death", c.Name)
		return
	}
	if !c.Flags.WarnedHalf {
		c.Flags.WarnedHalf = true
		e.logf(CategoryWarning, "%s is badly hurt", c.Name)
	}
}
