package combat

import (
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Collision damage dice by obstruction type.
var (
	wallCollision      = [2]int{2, 4}
	terrainCollision   = [2]int{1, 6}
	combatantCollision = [2]int{1, 4}
)

// knockback pushes t away from source up to distance cells and applies
// collision damage exactly once when something stops it.
func (e *Encounter) knockback(t *Combatant, source grid.Pos, distance int) grid.KnockbackResult {
	res := e.grid.Knockback(e.MoverFor(t), t.Pos, source, distance, e.deps.Dice)
	for _, p := range res.Path {
		t.Pos = p
		e.timeline.Append(StepMove, t.ID, p, "knockback")
	}
	if len(res.Path) > 0 {
		e.logf(CategoryMovement, "%s is knocked back to %s", t.Name, res.Final)
	}
	switch res.Collision {
	case grid.CollisionWall:
		dmg := t.ApplyDamage(e.deps.Dice.RollDice(wallCollision[0], wallCollision[1]).Total())
		e.logf(CategoryCombat, "%s slams into a wall for %d", t.Name, dmg)
	case grid.CollisionObstacle:
		roll := e.deps.Dice.RollDice(wallCollision[0], wallCollision[1]).Total()
		dmg := t.ApplyDamage(roll)
		destroyed := e.grid.DamageObstacle(res.BlockedAt, roll)
		e.logf(CategoryCombat, "%s slams into an obstacle for %d", t.Name, dmg)
		if destroyed {
			e.logf(CategoryCombat, "the obstacle at %s shatters", res.BlockedAt)
		}
	case grid.CollisionTerrain:
		dmg := t.ApplyDamage(e.deps.Dice.RollDice(terrainCollision[0], terrainCollision[1]).Total())
		e.logf(CategoryCombat, "%s crashes into terrain for %d", t.Name, dmg)
	case grid.CollisionCombatant:
		roll := e.deps.Dice.RollDice(combatantCollision[0], combatantCollision[1]).Total()
		dmg := t.ApplyDamage(roll)
		if other := e.Occupant(res.BlockedAt); other != nil {
			other.ApplyDamage(roll)
			e.logf(CategoryCombat, "%s collides with %s for %d each", t.Name, other.Name, dmg)
		}
	}
	return res
}
