package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// ItemKind selects how a consumable resolves.
type ItemKind string

const (
	KindHealthPotion ItemKind = "health_potion"
	KindManaPotion   ItemKind = "mana_potion"
	KindBomb         ItemKind = "bomb"
	KindCleanser     ItemKind = "cleanser"
	KindFood         ItemKind = "food"
	// KindRevive is consumed automatically when its holder would be defeated.
	KindRevive ItemKind = "revive"
)

var validKinds = map[ItemKind]bool{
	KindHealthPotion: true,
	KindManaPotion:   true,
	KindBomb:         true,
	KindCleanser:     true,
	KindFood:         true,
	KindRevive:       true,
}

// ItemDef defines the static properties of a consumable loaded from YAML.
type ItemDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Kind        ItemKind `yaml:"kind"`
	// Amount is the HP or MP restored by potions.
	Amount int `yaml:"amount"`
	// Dice is the damage of a bomb.
	Dice    string          `yaml:"dice"`
	Element ruleset.Element `yaml:"element"`
	Range   int             `yaml:"range"`
	Radius  int             `yaml:"radius"`
	Value   int             `yaml:"value"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("Kind %q is not a valid item kind", d.Kind))
	}
	switch d.Kind {
	case KindHealthPotion, KindManaPotion:
		if d.Amount < 1 {
			errs = append(errs, errors.New("Amount must be >= 1 for potions"))
		}
	case KindBomb:
		if _, err := dice.Parse(d.Dice); err != nil {
			errs = append(errs, fmt.Errorf("Dice: %w", err))
		}
		if d.Range < 1 {
			errs = append(errs, errors.New("Range must be >= 1 for bombs"))
		}
	}
	if err := d.Element.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}
