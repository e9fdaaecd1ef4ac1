// Package inventory provides definitions and loaders for weapons, armor,
// shields, catalysts and consumable items used by the combat engine.
package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// WeaponClass is the capability trait that selects scaling stats and class passives.
type WeaponClass string

const (
	ClassSword  WeaponClass = "sword"
	ClassAxe    WeaponClass = "axe"
	ClassHammer WeaponClass = "hammer"
	ClassSpear  WeaponClass = "spear"
	ClassDagger WeaponClass = "dagger"
	ClassBow    WeaponClass = "bow"
	ClassStaff  WeaponClass = "staff"
	ClassFist   WeaponClass = "fist"
)

var validWeaponClasses = map[WeaponClass]bool{
	ClassSword: true, ClassAxe: true, ClassHammer: true, ClassSpear: true,
	ClassDagger: true, ClassBow: true, ClassStaff: true, ClassFist: true,
}

// Finesse reports whether the class scales with Dexterity instead of Strength.
func (c WeaponClass) Finesse() bool {
	return c == ClassBow || c == ClassDagger
}

// Ranged reports whether attacks with the class are not melee.
func (c WeaponClass) Ranged() bool {
	return c == ClassBow
}

// WeaponDef defines the static properties of a weapon loaded from YAML.
type WeaponDef struct {
	ID    string      `yaml:"id"`
	Name  string      `yaml:"name"`
	Class WeaponClass `yaml:"class"`
	// Tier scales the armor break chance.
	Tier       int             `yaml:"tier"`
	DamageDice string          `yaml:"damage_dice"`
	Element    ruleset.Element `yaml:"element"`
	// Enchantment is an extra dice expression rolled on every hit; empty means none.
	Enchantment string `yaml:"enchantment"`
	Range       int    `yaml:"range"`
	// Strikes >= 2 grants a second strike per attack.
	Strikes int `yaml:"strikes"`
	// CritMultiplier overrides the default critical multiplier when larger.
	CritMultiplier float64 `yaml:"crit_multiplier"`
	ArmorPierce    int     `yaml:"armor_pierce"`
	Knockback      int     `yaml:"knockback"`
	// Catalyst weapons channel spells without a separate catalyst.
	Catalyst bool `yaml:"catalyst"`
	// Status is inflicted on hit with StatusChance, scaled by tier.
	Status         status.ID `yaml:"status"`
	StatusChance   float64   `yaml:"status_chance"`
	StatusDuration int       `yaml:"status_duration"`
}

// Unarmed is the weapon used by combatants with nothing equipped.
var Unarmed = &WeaponDef{
	ID:         "unarmed",
	Name:       "Fists",
	Class:      ClassFist,
	Tier:       1,
	DamageDice: "1d4",
	Element:    ruleset.ElementPhysical,
	Range:      1,
	Strikes:    1,
}

// IsMelee reports whether the weapon strikes adjacent cells only.
func (w *WeaponDef) IsMelee() bool {
	return !w.Class.Ranged()
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validWeaponClasses[w.Class] {
		errs = append(errs, fmt.Errorf("Class %q is not a valid weapon class", w.Class))
	}
	if _, err := dice.Parse(w.DamageDice); err != nil {
		errs = append(errs, fmt.Errorf("DamageDice: %w", err))
	}
	if w.Enchantment != "" {
		if _, err := dice.Parse(w.Enchantment); err != nil {
			errs = append(errs, fmt.Errorf("Enchantment: %w", err))
		}
	}
	if err := w.Element.Validate(); err != nil {
		errs = append(errs, err)
	}
	if w.Range < 1 {
		errs = append(errs, errors.New("Range must be >= 1"))
	}
	if w.StatusChance < 0 || w.StatusChance > 1 {
		errs = append(errs, errors.New("StatusChance must be in [0, 1]"))
	}
	if w.Tier < 1 {
		errs = append(errs, errors.New("Tier must be >= 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}
