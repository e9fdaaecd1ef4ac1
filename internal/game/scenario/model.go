// Package scenario loads battlefield set-ups from YAML and turns them into
// ready-to-run encounters.
package scenario

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// DefaultPlayerID and DefaultAllyID are used when a scenario leaves the id blank.
const (
	DefaultPlayerID = "player"
	DefaultAllyID   = "ally"
)

// Hero describes a class-based combatant: the player or the ally.
type Hero struct {
	ID       string
	Name     string
	Class    string
	Race     string
	MaxHP    int
	MaxMP    int
	Stats    ruleset.Stats
	Weapon   string
	Armor    string
	Shield   string
	Catalyst string
	Spells   []string
	Skills   []string
	// Items maps consumable IDs to counts.
	Items map[string]int
	Pos   grid.Pos
}

// EnemySpawn places one enemy built from an npc template.
type EnemySpawn struct {
	ID       string
	Template string
	Pos      grid.Pos
}

// Object is a terrain feature or obstacle placed before combat.
type Object struct {
	ID   string
	Kind grid.ObjectKind
	Pos  grid.Pos
	HP   int
}

// Scenario is a complete battlefield set-up.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Width       int
	Height      int
	Inactive    []grid.Pos
	Objects     []Object
	Player      Hero
	// Ally is nil when the player fights alone.
	Ally        *Hero
	Enemies     []EnemySpawn
	Inescapable bool
}

// Validate checks the scenario's structural invariants. Content references
// (classes, templates, items) are resolved later by Build.
//
// Postcondition: returns nil iff dimensions are positive, every position is in
// bounds on an active cell, no two combatants or objects share a cell, IDs are
// unique and at least one enemy is present.
func (s *Scenario) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Width < 1 || s.Height < 1 {
		errs = append(errs, fmt.Errorf("grid must be at least 1x1, got %dx%d", s.Width, s.Height))
		return fmt.Errorf("scenario %q: %w", s.ID, errors.Join(errs...))
	}
	if len(s.Enemies) == 0 {
		errs = append(errs, errors.New("at least one enemy is required"))
	}

	inBounds := func(p grid.Pos) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
	}
	inactive := make(map[grid.Pos]bool, len(s.Inactive))
	for _, p := range s.Inactive {
		if !inBounds(p) {
			errs = append(errs, fmt.Errorf("inactive cell %s out of bounds", p))
		}
		inactive[p] = true
	}

	taken := make(map[grid.Pos]string)
	ids := make(map[string]bool)
	claim := func(id string, p grid.Pos) {
		if id == "" {
			errs = append(errs, fmt.Errorf("entry at %s has an empty id", p))
		} else if ids[id] {
			errs = append(errs, fmt.Errorf("duplicate id %q", id))
		}
		ids[id] = true
		switch {
		case !inBounds(p):
			errs = append(errs, fmt.Errorf("%q at %s is out of bounds", id, p))
		case inactive[p]:
			errs = append(errs, fmt.Errorf("%q at %s stands on an inactive cell", id, p))
		case taken[p] != "":
			errs = append(errs, fmt.Errorf("%q at %s collides with %q", id, p, taken[p]))
		default:
			taken[p] = id
		}
	}

	for _, o := range s.Objects {
		if o.Kind != grid.ObjectObstacle && o.Kind != grid.ObjectTerrain {
			errs = append(errs, fmt.Errorf("object %q has an unknown kind", o.ID))
		}
		if o.Kind == grid.ObjectObstacle && o.HP < 1 {
			errs = append(errs, fmt.Errorf("obstacle %q must have hp >= 1", o.ID))
		}
		claim(o.ID, o.Pos)
	}
	if err := s.Player.validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	claim(s.Player.ID, s.Player.Pos)
	if s.Ally != nil {
		if err := s.Ally.validate(); err != nil {
			errs = append(errs, fmt.Errorf("ally: %w", err))
		}
		claim(s.Ally.ID, s.Ally.Pos)
	}
	for _, e := range s.Enemies {
		if e.Template == "" {
			errs = append(errs, fmt.Errorf("enemy %q has no template", e.ID))
		}
		claim(e.ID, e.Pos)
	}

	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}

func (h *Hero) validate() error {
	var errs []error
	if h.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if h.MaxHP < 1 {
		errs = append(errs, fmt.Errorf("max_hp must be >= 1, got %d", h.MaxHP))
	}
	if h.MaxMP < 0 {
		errs = append(errs, fmt.Errorf("max_mp must be >= 0, got %d", h.MaxMP))
	}
	for id, n := range h.Items {
		if n < 0 {
			errs = append(errs, fmt.Errorf("item %q count must be >= 0", id))
		}
	}
	return errors.Join(errs...)
}
