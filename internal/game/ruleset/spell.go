package ruleset

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// SpellKind selects how a spell resolves.
type SpellKind string

const (
	SpellDamage SpellKind = "damage"
	SpellSplash SpellKind = "splash"
	SpellChain  SpellKind = "chain"
	SpellAOE    SpellKind = "aoe"
	SpellHeal   SpellKind = "heal"
	SpellBuff   SpellKind = "buff"
	SpellDebuff SpellKind = "debuff"
)

// SpellDef is the static definition of a spell.
type SpellDef struct {
	ID      string    `yaml:"id"`
	Name    string    `yaml:"name"`
	Kind    SpellKind `yaml:"kind"`
	Element Element   `yaml:"element"`
	// Dice is the damage or healing roll at tier 1.
	Dice   string `yaml:"dice"`
	MPCost int    `yaml:"mp_cost"`
	Range  int    `yaml:"range"`
	// Radius applies to AOE spells.
	Radius int `yaml:"radius"`
	// Hits is the number of damage iterations; 0 means 1.
	Hits int `yaml:"hits"`
	// Self spells always target the caster and skip the range check.
	Self           bool      `yaml:"self"`
	Status         status.ID `yaml:"status"`
	StatusChance   float64   `yaml:"status_chance"`
	StatusDuration int       `yaml:"status_duration"`
	Magnitude      float64   `yaml:"magnitude"`
	PerTick        int       `yaml:"per_tick"`
}

// HitCount returns the number of damage iterations.
func (s *SpellDef) HitCount() int {
	if s.Hits < 1 {
		return 1
	}
	return s.Hits
}

// Offensive reports whether the spell damages or debuffs hostiles.
func (s *SpellDef) Offensive() bool {
	switch s.Kind {
	case SpellDamage, SpellSplash, SpellChain, SpellAOE, SpellDebuff:
		return true
	}
	return false
}

// SingleTarget reports whether the spell strikes exactly one hostile.
func (s *SpellDef) SingleTarget() bool {
	return s.Kind == SpellDamage || s.Kind == SpellDebuff
}

// Validate checks the spell's invariants.
//
// Postcondition: returns nil iff all fields are well-formed.
func (s *SpellDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch s.Kind {
	case SpellDamage, SpellSplash, SpellChain, SpellAOE, SpellHeal:
		if _, err := dice.Parse(s.Dice); err != nil {
			errs = append(errs, fmt.Errorf("dice: %w", err))
		}
	case SpellBuff, SpellDebuff:
		if s.Status == "" {
			errs = append(errs, fmt.Errorf("%s spell requires a status", s.Kind))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", s.Kind))
	}
	if err := s.Element.Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.MPCost < 0 {
		errs = append(errs, errors.New("mp_cost must be >= 0"))
	}
	if s.Kind == SpellAOE && s.Radius < 1 {
		errs = append(errs, errors.New("aoe spell radius must be >= 1"))
	}
	if s.StatusChance < 0 || s.StatusChance > 1 {
		errs = append(errs, errors.New("status_chance must be in [0, 1]"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}
