package ai

import (
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// DroneController drives summoned drones: chase the nearest enemy a walker
// could reach, then strike.
type DroneController struct{}

var _ combat.Controller = DroneController{}

// Decide implements combat.Controller.
//
// Postcondition: returns Wait when no hostile is reachable by a non-flying path.
func (DroneController) Decide(enc *combat.Encounter, actor *combat.Combatant) (combat.Intent, bool) {
	if actor.Incapacitated() {
		return combat.Wait(), true
	}
	reach := enc.WeaponRange(actor)
	walker := grid.Mover{Occupied: enc.MoverFor(actor).Occupied}
	var target *combat.Combatant
	bestLen := -1
	for _, h := range enc.Hostiles(actor) {
		n := enc.Grid().PathLength(walker, actor.Pos, h.Pos, reach)
		if n < 0 {
			continue
		}
		if target == nil || n < bestLen {
			target, bestLen = h, n
		}
	}
	if target == nil {
		return combat.Wait(), true
	}
	return engage(enc, actor, target, reach, combat.Attack(target.ID)), true
}
