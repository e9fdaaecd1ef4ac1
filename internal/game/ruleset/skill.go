package ruleset

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// SkillKind selects how a skill resolves.
type SkillKind string

const (
	SkillPowerStrike     SkillKind = "power_strike"
	SkillKnockbackStrike SkillKind = "knockback_strike"
	SkillDash            SkillKind = "dash"
	SkillWarCry          SkillKind = "war_cry"
	SkillToggle          SkillKind = "toggle"
	SkillSummonDrone     SkillKind = "summon_drone"
	SkillHealSelf        SkillKind = "heal_self"
)

// SkillDef is the static definition of a skill or signature ability.
type SkillDef struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Kind     SkillKind `yaml:"kind"`
	MPCost   int       `yaml:"mp_cost"`
	Cooldown int       `yaml:"cooldown"`
	// Multiplier is the temporary attack multiplier of power strikes and the
	// damage multiplier an active toggle adds.
	Multiplier float64 `yaml:"multiplier"`
	// Distance is the knockback distance or the extra dash movement.
	Distance int       `yaml:"distance"`
	Status   status.ID `yaml:"status"`
	Duration int       `yaml:"duration"`
	// Heal is the dice expression restored by heal_self.
	Heal string `yaml:"heal"`
	// Deferred skills charge their cost only when the target is confirmed.
	Deferred bool `yaml:"deferred"`
	// OncePerEncounter signatures may be used a single time.
	OncePerEncounter bool `yaml:"once_per_encounter"`
	// Surcharge is the MP added to every spell while the toggle is active.
	Surcharge int `yaml:"surcharge"`
	// MinMP is the MP threshold under which an AI drops the toggle.
	MinMP int `yaml:"min_mp"`
	// Drone names the npc template a summon creates.
	Drone string `yaml:"drone"`
}

// Validate checks the skill's invariants.
func (s *SkillDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch s.Kind {
	case SkillPowerStrike:
		if s.Multiplier <= 1 {
			errs = append(errs, errors.New("power_strike multiplier must be > 1"))
		}
	case SkillKnockbackStrike, SkillDash:
		if s.Distance < 1 {
			errs = append(errs, fmt.Errorf("%s distance must be >= 1", s.Kind))
		}
	case SkillWarCry:
		if s.Status == "" {
			errs = append(errs, errors.New("war_cry requires a status"))
		}
	case SkillToggle:
	case SkillSummonDrone:
		if s.Drone == "" {
			errs = append(errs, errors.New("summon_drone requires a drone template"))
		}
	case SkillHealSelf:
		if s.Heal == "" {
			errs = append(errs, errors.New("heal_self requires a heal expression"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", s.Kind))
	}
	if s.MPCost < 0 || s.Cooldown < 0 {
		errs = append(errs, errors.New("mp_cost and cooldown must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}
