package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// EnemyController drives enemies through their HTN domain, falling back to
// attacking the nearest player-side combatant.
type EnemyController struct {
	planners *Registry
	logger   *zap.Logger
}

var _ combat.Controller = (*EnemyController)(nil)

// NewEnemyController returns a controller planning with planners. A nil
// planners registry makes every enemy use the fallback.
func NewEnemyController(planners *Registry, logger *zap.Logger) *EnemyController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnemyController{planners: planners, logger: logger}
}

// Decide implements combat.Controller.
//
// Postcondition: always returns ok == true; the first executable planned action
// wins and an empty or unexecutable plan falls back to the nearest target.
func (c *EnemyController) Decide(enc *combat.Encounter, actor *combat.Combatant) (combat.Intent, bool) {
	if actor.Incapacitated() {
		return combat.Wait(), true
	}
	if actor.Restrained() {
		return combat.Struggle(), true
	}
	ws := BuildWorldState(enc, actor)
	if !ws.HasLivingEnemies(actor.ID) {
		return combat.Wait(), true
	}
	if c.planners != nil && actor.AIDomain != "" {
		if p, ok := c.planners.PlannerFor(actor.AIDomain); ok {
			plan, err := p.Plan(ws)
			if err != nil {
				c.logger.Warn("planning failed", zap.String("actor", actor.ID), zap.Error(err))
			}
			for _, a := range plan {
				if in, ok := translate(enc, actor, a); ok {
					c.logger.Debug("enemy plan",
						zap.String("actor", actor.ID),
						zap.String("action", a.Action),
						zap.String("target", a.Target),
					)
					return in, true
				}
			}
		} else {
			c.logger.Warn("unknown AI domain", zap.String("actor", actor.ID), zap.String("domain", actor.AIDomain))
		}
	}
	return nearestAttack(enc, actor), true
}

// translate converts a planned action into an intent actor can perform now.
func translate(enc *combat.Encounter, actor *combat.Combatant, a PlannedAction) (combat.Intent, bool) {
	if a.Action == ActionPass {
		return combat.Wait(), true
	}
	t := living(enc, a.Target)
	if t == nil {
		return combat.Intent{}, false
	}
	switch a.Action {
	case ActionAttack:
		in := engage(enc, actor, t, enc.WeaponRange(actor), combat.Attack(t.ID))
		return in, in.Kind != combat.IntentWait
	case ActionMove:
		cell := enc.Grid().StepToward(enc.MoverFor(actor), actor.Pos, t.Pos, enc.MovementBudget(actor))
		if cell == actor.Pos {
			return combat.Intent{}, false
		}
		return combat.Move(cell), true
	case ActionSwallow:
		if !actor.Traits.Swallow || holdsVictim(enc, actor) || !actor.Hostile(t) {
			return combat.Intent{}, false
		}
		in := engage(enc, actor, t, 1, combat.Swallow(t.ID))
		return in, in.Kind != combat.IntentWait
	case ActionCast:
		if err := enc.CanCast(actor, a.Spell, t.ID); err != nil {
			return combat.Intent{}, false
		}
		return combat.Cast(a.Spell, t.ID), true
	}
	return combat.Intent{}, false
}

func holdsVictim(enc *combat.Encounter, actor *combat.Combatant) bool {
	for _, o := range enc.Combatants() {
		if o.Flags.SwallowedBy == actor.ID && o.Swallowed() {
			return true
		}
	}
	return false
}

// nearestAttack attacks the nearest hostile, closing distance first if needed.
func nearestAttack(enc *combat.Encounter, actor *combat.Combatant) combat.Intent {
	t := combat.Nearest(actor, enc.Hostiles(actor))
	if t == nil {
		return combat.Wait()
	}
	return engage(enc, actor, t, enc.WeaponRange(actor), combat.Attack(t.ID))
}
