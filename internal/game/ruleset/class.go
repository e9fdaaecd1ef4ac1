package ruleset

import (
	"errors"
	"fmt"
)

// Archetype decides whether an AI-controlled member of the class prefers
// weapons or spells when both can reach the target.
type Archetype string

const (
	ArchetypeMelee  Archetype = "melee"
	ArchetypeCaster Archetype = "caster"
	// ArchetypeHybrid casts only when the best spell is super effective.
	ArchetypeHybrid Archetype = "hybrid"
)

// ClassDef defines a combat class.
//
// Precondition: ID, Name and Archetype must be non-empty after loading.
type ClassDef struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Archetype   Archetype `yaml:"archetype"`
	Affinity    Element   `yaml:"affinity"`
	// Signature names the class's signature skill; empty means none.
	Signature string    `yaml:"signature"`
	Passives  []Passive `yaml:"passives"`
	Spells    []string  `yaml:"spells"`
	Skills    []string  `yaml:"skills"`
}

// Validate checks the class's invariants.
func (c *ClassDef) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch c.Archetype {
	case ArchetypeMelee, ArchetypeCaster, ArchetypeHybrid:
	default:
		errs = append(errs, fmt.Errorf("unknown archetype %q", c.Archetype))
	}
	if err := c.Affinity.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.Passives {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("class %q: %w", c.ID, errors.Join(errs...))
	}
	return nil
}
