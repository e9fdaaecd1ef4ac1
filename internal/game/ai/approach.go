package ai

import (
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// approach returns strike when target is within reach of actor, otherwise a
// single move toward target.
//
// Postcondition: returns Wait when no reachable cell brings actor closer.
func approach(enc *combat.Encounter, actor, target *combat.Combatant, reach int, strike combat.Intent) combat.Intent {
	if actor.Pos.Distance(target.Pos) <= reach {
		return strike
	}
	cell := enc.Grid().StepToward(enc.MoverFor(actor), actor.Pos, target.Pos, enc.MovementBudget(actor))
	if cell == actor.Pos {
		return combat.Wait()
	}
	return combat.Move(cell)
}

// engage is approach, but chains strike onto a move that ends within reach.
// Only drones and enemies may move and strike in the same turn.
func engage(enc *combat.Encounter, actor, target *combat.Combatant, reach int, strike combat.Intent) combat.Intent {
	in := approach(enc, actor, target, reach, strike)
	if in.Kind == combat.IntentMove && in.Cell.Distance(target.Pos) <= reach {
		return in.Then(strike)
	}
	return in
}

// living returns the placed, living combatant with id.
func living(enc *combat.Encounter, id string) *combat.Combatant {
	c, ok := enc.Combatant(id)
	if !ok || !c.IsAlive() || !c.Pos.IsPlaced() {
		return nil
	}
	return c
}

// freeNeighbour returns the first cardinal neighbour of c that c could stand on.
func freeNeighbour(enc *combat.Encounter, c *combat.Combatant) (grid.Pos, bool) {
	m := enc.MoverFor(c)
	for _, d := range grid.Cardinals {
		p := c.Pos.Add(d)
		if enc.Grid().CanStand(m, p) {
			return p, true
		}
	}
	return grid.Unplaced, false
}
