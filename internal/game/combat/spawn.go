package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

// FromTemplate builds a combatant at full HP from an npc template, resolving
// its equipment references against items.
//
// Precondition: tmpl has passed Validate.
// Postcondition: on error no combatant is returned and the error wraps
// ErrConfigurationGap.
func FromTemplate(id string, role Role, tmpl *npc.Template, items *inventory.Registry) (*Combatant, error) {
	c := NewCombatant(id, tmpl.Name, role, tmpl.MaxHP, tmpl.MaxMP)
	c.Stats = tmpl.Stats
	c.Affinity = tmpl.Affinity
	c.Movement = tmpl.Movement
	c.Traits = tmpl.Traits
	c.Flags.ReviveChance = tmpl.Traits.ReviveChance
	c.AIDomain = tmpl.AIDomain
	c.Rewards = tmpl.Rewards
	c.Passives.Add(tmpl.Passives...)
	for _, s := range tmpl.Spells {
		c.Spells[s] = 1
	}
	if tmpl.Weapon != "" {
		w, ok := items.Weapon(tmpl.Weapon)
		if !ok {
			return nil, fmt.Errorf("template %q weapon %q: %w", tmpl.ID, tmpl.Weapon, ErrConfigurationGap)
		}
		c.Equipment.Weapon = w
	}
	if tmpl.Armor != "" {
		a, ok := items.Armor(tmpl.Armor)
		if !ok {
			return nil, fmt.Errorf("template %q armor %q: %w", tmpl.ID, tmpl.Armor, ErrConfigurationGap)
		}
		c.Equipment.Armor = a
	}
	if tmpl.Shield != "" {
		s, ok := items.Shield(tmpl.Shield)
		if !ok {
			return nil, fmt.Errorf("template %q shield %q: %w", tmpl.ID, tmpl.Shield, ErrConfigurationGap)
		}
		c.Equipment.Shield = s
	}
	return c, nil
}
