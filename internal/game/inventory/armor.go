package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// ArmorDef defines body armor.
type ArmorDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Defense     int    `yaml:"defense"`
	// Dodge is added to the wearer's base dodge chance.
	Dodge float64 `yaml:"dodge"`
	// Resist lists elements whose damage is halved.
	Resist []ruleset.Element `yaml:"resist"`
}

// Resists reports whether the armor halves damage of element e.
func (a *ArmorDef) Resists(e ruleset.Element) bool {
	for _, r := range a.Resist {
		if r == e {
			return true
		}
	}
	return false
}

// Validate reports an error if the ArmorDef is missing required fields or contains illegal values.
// Precondition: a is non-nil.
// Postcondition: Returns nil iff the def is well-formed.
func (a *ArmorDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.Defense < 0 {
		errs = append(errs, errors.New("defense must be >= 0"))
	}
	if a.Dodge < 0 || a.Dodge > 1 {
		errs = append(errs, errors.New("dodge must be in [0, 1]"))
	}
	for _, e := range a.Resist {
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %v", errs)
	}
	return nil
}

// ShieldDef defines an off-hand shield.
type ShieldDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// BlockChance is the chance to block a hit.
	BlockChance float64 `yaml:"block_chance"`
	// BlockReduction is the fraction of damage a block removes.
	BlockReduction float64 `yaml:"block_reduction"`
	// CounterDice damages a melee attacker once per attack; empty means none.
	CounterDice string `yaml:"counter_dice"`
}

// Validate checks the shield's invariants.
func (s *ShieldDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.BlockChance < 0 || s.BlockChance > 1 {
		errs = append(errs, errors.New("block_chance must be in [0, 1]"))
	}
	if s.BlockReduction < 0 || s.BlockReduction > 1 {
		errs = append(errs, errors.New("block_reduction must be in [0, 1]"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("shield validation failed: %v", errs)
	}
	return nil
}

// CatalystDef defines a spell focus. A spell cannot be cast without one.
type CatalystDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// MPReduction is subtracted from every spell cost.
	MPReduction int `yaml:"mp_reduction"`
}

// Validate checks the catalyst's invariants.
func (c *CatalystDef) Validate() error {
	if c.ID == "" || c.Name == "" {
		return errors.New("catalyst validation failed: id and name must not be empty")
	}
	if c.MPReduction < 0 {
		return fmt.Errorf("catalyst %q: mp_reduction must be >= 0", c.ID)
	}
	return nil
}
