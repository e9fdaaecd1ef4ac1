package combat

import (
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// lookupItem resolves a held, known consumable.
func (e *Encounter) lookupItem(actor *Combatant, id string) (*inventory.ItemDef, error) {
	def, ok := e.deps.Items.Item(id)
	if !ok {
		return nil, reject(KindConfigurationGap, "unknown item %q", id)
	}
	if actor.Items[id] <= 0 {
		return nil, reject(KindInsufficientResource, "%s has no %s", actor.Name, def.Name)
	}
	return def, nil
}

// supportTarget resolves the recipient of a potion-like item: the actor or an
// adjacent friendly.
func (e *Encounter) supportTarget(actor *Combatant, id string) (*Combatant, error) {
	t, err := e.friendlyTarget(actor, id)
	if err != nil {
		return nil, err
	}
	if t != actor && actor.Pos.Distance(t.Pos) > 1 {
		return nil, reject(KindInvalidTarget, "%s is not adjacent", t.Name)
	}
	return t, nil
}

func (e *Encounter) useItem(actor *Combatant, in Intent) (bool, error) {
	def, err := e.lookupItem(actor, in.Ref)
	if err != nil {
		return false, err
	}
	switch def.Kind {
	case inventory.KindRevive:
		return false, reject(KindInvalidState, "%s is used automatically", def.Name)
	case inventory.KindBomb:
		cell, err := e.bombCell(actor, def, in)
		if err != nil {
			return false, err
		}
		e.consume(actor, def)
		for _, o := range e.Hostiles(actor) {
			if o.Pos.Distance(cell) <= def.Radius {
				e.Land(e.calc.Compute(e, Hit{
					Attacker: actor,
					Target:   o,
					Source:   SourceItem,
					Item:     def,
					Tier:     1,
					Element:  def.Element,
				}))
			}
		}
		return true, nil
	}

	t, err := e.supportTarget(actor, in.Target)
	if err != nil {
		return false, err
	}
	switch def.Kind {
	case inventory.KindHealthPotion:
		e.consume(actor, def)
		got := t.Heal(def.Amount)
		e.logf(CategoryCombat, "%s recovers %d HP", t.Name, got)
	case inventory.KindManaPotion:
		e.consume(actor, def)
		got := t.RestoreMP(def.Amount)
		e.logf(CategoryCombat, "%s recovers %d MP", t.Name, got)
	case inventory.KindCleanser:
		e.consume(actor, def)
		removed := t.Statuses.Cleanse()
		for _, id := range removed {
			e.logf(CategoryStatus, "%s is no longer %s", t.Name, id)
		}
	case inventory.KindFood:
		fed, ok := e.deps.Statuses.Get(status.WellFed)
		if !ok {
			return false, reject(KindConfigurationGap, "status %q is not registered", status.WellFed)
		}
		e.consume(actor, def)
		e.applyStatus(t, fed, status.Indefinite, 0, 0)
	default:
		return false, reject(KindConfigurationGap, "item kind %q", def.Kind)
	}
	return true, nil
}

func (e *Encounter) bombCell(actor *Combatant, def *inventory.ItemDef, in Intent) (grid.Pos, error) {
	cell := in.Cell
	if in.Target != "" {
		t, err := e.hostileTarget(actor, in.Target)
		if err != nil {
			return grid.Unplaced, err
		}
		cell = t.Pos
	}
	if !e.grid.IsActive(cell) {
		return grid.Unplaced, reject(KindIllegalPosition, "cannot throw at %s", cell)
	}
	rng := def.Range
	if rng < 1 {
		rng = 1
	}
	if d := actor.Pos.Distance(cell); d > rng {
		return grid.Unplaced, reject(KindInvalidTarget, "%s is %d away, range %d", cell, d, rng)
	}
	return cell, nil
}

func (e *Encounter) consume(actor *Combatant, def *inventory.ItemDef) {
	actor.Items[def.ID]--
	if actor.Items[def.ID] <= 0 {
		delete(actor.Items, def.ID)
	}
	e.logf(CategoryCombat, "%s uses %s", actor.Name, def.Name)
}
