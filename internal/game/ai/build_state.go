package ai

import (
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// BuildWorldState constructs a WorldState snapshot of enc from actor's point of view.
//
// Precondition: enc and actor must not be nil.
// Postcondition: ws.Self.UID == actor.ID; every combatant in enc is represented.
func BuildWorldState(enc *combat.Encounter, actor *combat.Combatant) *WorldState {
	ws := &WorldState{Round: enc.Round()}
	for _, c := range enc.Combatants() {
		cs := stateOf(c)
		if c == actor {
			ws.Self = cs
		}
		ws.Combatants = append(ws.Combatants, cs)
	}
	if ws.Self == nil {
		ws.Self = stateOf(actor)
		ws.Combatants = append(ws.Combatants, ws.Self)
	}
	return ws
}

func stateOf(c *combat.Combatant) *CombatantState {
	side := SidePlayer
	if !c.OnPlayerSide() {
		side = SideEnemy
	}
	return &CombatantState{
		UID:   c.ID,
		Name:  c.Name,
		Side:  side,
		HP:    c.HP,
		MaxHP: c.MaxHP,
		MP:    c.MP,
		Pos:   c.Pos,
		Dead:  !c.IsAlive() || !c.Pos.IsPlaced(),
	}
}
