package ai

import (
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// EncounterQuery answers script queries against a live encounter.
type EncounterQuery struct {
	Enc *combat.Encounter
}

var _ scripting.Query = EncounterQuery{}

// Combatant implements scripting.Query.
func (q EncounterQuery) Combatant(uid string) (scripting.CombatantInfo, bool) {
	c, ok := q.Enc.Combatant(uid)
	if !ok {
		return scripting.CombatantInfo{}, false
	}
	info := scripting.CombatantInfo{
		UID:   c.ID,
		Name:  c.Name,
		Role:  c.Role.String(),
		HP:    c.HP,
		MaxHP: c.MaxHP,
		MP:    c.MP,
		MaxMP: c.MaxMP,
		X:     c.Pos.X,
		Y:     c.Pos.Y,
	}
	for _, eff := range c.Statuses.All() {
		info.Statuses = append(info.Statuses, string(eff.Def.ID))
	}
	sort.Strings(info.Statuses)
	return info, true
}

// Distance implements scripting.Query.
func (q EncounterQuery) Distance(a, b string) int {
	ca, ok1 := q.Enc.Combatant(a)
	cb, ok2 := q.Enc.Combatant(b)
	if !ok1 || !ok2 || !ca.Pos.IsPlaced() || !cb.Pos.IsPlaced() {
		return -1
	}
	return ca.Pos.Distance(cb.Pos)
}

// HostilesWithin implements scripting.Query.
func (q EncounterQuery) HostilesWithin(uid string, r int) int {
	c, ok := q.Enc.Combatant(uid)
	if !ok || !c.Pos.IsPlaced() {
		return 0
	}
	n := 0
	for _, h := range q.Enc.Hostiles(c) {
		if c.Pos.Distance(h.Pos) <= r {
			n++
		}
	}
	return n
}

// Round implements scripting.Query.
func (q EncounterQuery) Round() int {
	return q.Enc.Round()
}
