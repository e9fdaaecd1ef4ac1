package scenario

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Build creates the grid and every combatant of s and returns an active
// encounter. The scenario's inescapable flag is OR-ed into opts.
//
// Precondition: s has passed Validate; deps.Rules, deps.Items and deps.NPCs are non-nil.
// Postcondition: on success every combatant stands on its own active, object-free
// cell; on error no encounter is returned and content gaps wrap
// combat.ErrConfigurationGap.
func (s *Scenario) Build(opts combat.Options, deps combat.Deps) (*combat.Encounter, error) {
	if deps.Rules == nil || deps.Items == nil || deps.NPCs == nil {
		return nil, errors.New("scenario build: rules, items and npc registries are required")
	}
	g := grid.New(s.Width, s.Height)
	for _, p := range s.Inactive {
		g.SetActive(p, false)
	}
	for _, o := range s.Objects {
		if err := g.PlaceObject(&grid.Object{ID: o.ID, Kind: o.Kind, Pos: o.Pos, HP: o.HP}); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
		}
	}

	opts.Inescapable = opts.Inescapable || s.Inescapable
	enc := combat.NewEncounter(g, opts, deps)

	player, err := buildHero(s.Player, combat.RolePlayer, deps.Rules, deps.Items)
	if err != nil {
		return nil, fmt.Errorf("scenario %q player: %w", s.ID, err)
	}
	if err := enc.Add(player); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
	}
	if s.Ally != nil {
		ally, err := buildHero(*s.Ally, combat.RoleAlly, deps.Rules, deps.Items)
		if err != nil {
			return nil, fmt.Errorf("scenario %q ally: %w", s.ID, err)
		}
		if err := enc.Add(ally); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
		}
	}
	for _, spawn := range s.Enemies {
		tmpl, ok := deps.NPCs.Get(spawn.Template)
		if !ok {
			return nil, fmt.Errorf("scenario %q enemy %q: unknown template %q: %w",
				s.ID, spawn.ID, spawn.Template, combat.ErrConfigurationGap)
		}
		c, err := combat.FromTemplate(spawn.ID, combat.RoleEnemy, tmpl, deps.Items)
		if err != nil {
			return nil, fmt.Errorf("scenario %q enemy %q: %w", s.ID, spawn.ID, err)
		}
		c.Pos = spawn.Pos
		if err := enc.Add(c); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
		}
	}
	return enc, nil
}

// buildHero assembles a class-based combatant. Race stats are added to the
// hero's own; class and race passives are merged; class spells and skills are
// learned alongside the listed ones.
func buildHero(h Hero, role combat.Role, rules *ruleset.Registry, items *inventory.Registry) (*combat.Combatant, error) {
	c := combat.NewCombatant(h.ID, h.Name, role, h.MaxHP, h.MaxMP)
	c.Pos = h.Pos
	c.Stats = h.Stats

	if h.Class != "" {
		class, ok := rules.Class(h.Class)
		if !ok {
			return nil, gap("class", h.Class)
		}
		c.Class = class
		c.Affinity = class.Affinity
		c.Passives.Add(class.Passives...)
		for _, id := range class.Spells {
			c.Spells[id] = 1
		}
		c.Skills = append(c.Skills, class.Skills...)
	}
	if h.Race != "" {
		race, ok := rules.Race(h.Race)
		if !ok {
			return nil, gap("race", h.Race)
		}
		c.Race = race
		c.Stats = c.Stats.Plus(race.Stats)
		c.Passives.Add(race.Passives...)
	}

	for _, id := range h.Spells {
		c.Spells[id] = 1
	}
	for id := range c.Spells {
		if _, ok := rules.Spell(id); !ok {
			return nil, gap("spell", id)
		}
	}
	for _, id := range h.Skills {
		if !contains(c.Skills, id) {
			c.Skills = append(c.Skills, id)
		}
	}
	for _, id := range c.Skills {
		if _, ok := rules.Skill(id); !ok {
			return nil, gap("skill", id)
		}
	}
	if c.Class != nil && c.Class.Signature != "" {
		if _, ok := rules.Skill(c.Class.Signature); !ok {
			return nil, gap("signature skill", c.Class.Signature)
		}
	}

	if err := equip(c, h, items); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(h.Items))
	for id := range h.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, ok := items.Item(id); !ok {
			return nil, gap("item", id)
		}
		if h.Items[id] > 0 {
			c.Items[id] = h.Items[id]
		}
	}
	return c, nil
}

func equip(c *combat.Combatant, h Hero, items *inventory.Registry) error {
	if h.Weapon != "" {
		w, ok := items.Weapon(h.Weapon)
		if !ok {
			return gap("weapon", h.Weapon)
		}
		c.Equipment.Weapon = w
	}
	if h.Armor != "" {
		a, ok := items.Armor(h.Armor)
		if !ok {
			return gap("armor", h.Armor)
		}
		c.Equipment.Armor = a
	}
	if h.Shield != "" {
		s, ok := items.Shield(h.Shield)
		if !ok {
			return gap("shield", h.Shield)
		}
		c.Equipment.Shield = s
	}
	if h.Catalyst != "" {
		cat, ok := items.Catalyst(h.Catalyst)
		if !ok {
			return gap("catalyst", h.Catalyst)
		}
		c.Equipment.Catalyst = cat
	}
	return nil
}

func gap(kind, id string) error {
	return fmt.Errorf("unknown %s %q: %w", kind, id, combat.ErrConfigurationGap)
}

func contains(list []string, id string) bool {
	for _, s := range list {
		if s == id {
			return true
		}
	}
	return false
}
