package ruleset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Registry holds every loaded spell, skill, class and race indexed by ID.
// It is read-only after loading and safe for concurrent reads.
type Registry struct {
	spells  map[string]*SpellDef
	skills  map[string]*SkillDef
	classes map[string]*ClassDef
	races   map[string]*RaceDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		spells:  make(map[string]*SpellDef),
		skills:  make(map[string]*SkillDef),
		classes: make(map[string]*ClassDef),
		races:   make(map[string]*RaceDef),
	}
}

// RegisterSpell adds s to the registry.
//
// Postcondition: Spell(s.ID) returns (s, true); returns error if s.ID already registered.
func (r *Registry) RegisterSpell(s *SpellDef) error {
	if _, exists := r.spells[s.ID]; exists {
		return fmt.Errorf("ruleset: spell ID %q already registered", s.ID)
	}
	r.spells[s.ID] = s
	return nil
}

// RegisterSkill adds s to the registry.
func (r *Registry) RegisterSkill(s *SkillDef) error {
	if _, exists := r.skills[s.ID]; exists {
		return fmt.Errorf("ruleset: skill ID %q already registered", s.ID)
	}
	r.skills[s.ID] = s
	return nil
}

// RegisterClass adds c to the registry.
func (r *Registry) RegisterClass(c *ClassDef) error {
	if _, exists := r.classes[c.ID]; exists {
		return fmt.Errorf("ruleset: class ID %q already registered", c.ID)
	}
	r.classes[c.ID] = c
	return nil
}

// RegisterRace adds rc to the registry.
func (r *Registry) RegisterRace(rc *RaceDef) error {
	if _, exists := r.races[rc.ID]; exists {
		return fmt.Errorf("ruleset: race ID %q already registered", rc.ID)
	}
	r.races[rc.ID] = rc
	return nil
}

// Spell returns the SpellDef for id and whether it was found.
func (r *Registry) Spell(id string) (*SpellDef, bool) {
	s, ok := r.spells[id]
	return s, ok
}

// Skill returns the SkillDef for id and whether it was found.
func (r *Registry) Skill(id string) (*SkillDef, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// Class returns the ClassDef for id and whether it was found.
func (r *Registry) Class(id string) (*ClassDef, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Race returns the RaceDef for id and whether it was found.
func (r *Registry) Race(id string) (*RaceDef, bool) {
	rc, ok := r.races[id]
	return rc, ok
}

// AllSpells returns every SpellDef sorted by ID.
func (r *Registry) AllSpells() []*SpellDef {
	out := make([]*SpellDef, 0, len(r.spells))
	for _, s := range r.spells {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate resolves every cross reference between registered definitions and
// the status registry.
//
// Postcondition: returns nil iff every referenced spell, skill and status exists;
// otherwise the error lists every dangling reference.
func (r *Registry) Validate(statuses *status.Registry) error {
	var errs []error
	checkStatus := func(owner string, id status.ID) {
		if id == "" {
			return
		}
		if _, ok := statuses.Get(id); !ok {
			errs = append(errs, fmt.Errorf("%s: unknown status %q", owner, id))
		}
	}
	for _, s := range r.spells {
		checkStatus("spell "+s.ID, s.Status)
	}
	for _, s := range r.skills {
		checkStatus("skill "+s.ID, s.Status)
	}
	for _, c := range r.classes {
		if c.Signature != "" {
			if _, ok := r.skills[c.Signature]; !ok {
				errs = append(errs, fmt.Errorf("class %s: unknown signature skill %q", c.ID, c.Signature))
			}
		}
		for _, id := range c.Spells {
			if _, ok := r.spells[id]; !ok {
				errs = append(errs, fmt.Errorf("class %s: unknown spell %q", c.ID, id))
			}
		}
		for _, id := range c.Skills {
			if _, ok := r.skills[id]; !ok {
				errs = append(errs, fmt.Errorf("class %s: unknown skill %q", c.ID, id))
			}
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errors.Join(errs...)
}
