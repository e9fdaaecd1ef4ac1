// Package ruleset defines the typed rule content of an encounter: elements,
// stats, passives, spells, skills, classes and races, loaded from YAML.
package ruleset

import "fmt"

// Element is the damage element of a hit or the affinity of a combatant.
type Element string

const (
	ElementNone      Element = ""
	ElementPhysical  Element = "physical"
	ElementFire      Element = "fire"
	ElementIce       Element = "ice"
	ElementLightning Element = "lightning"
	ElementEarth     Element = "earth"
	ElementWind      Element = "wind"
	ElementHoly      Element = "holy"
	ElementDark      Element = "dark"
)

var validElements = map[Element]bool{
	ElementNone:      true,
	ElementPhysical:  true,
	ElementFire:      true,
	ElementIce:       true,
	ElementLightning: true,
	ElementEarth:     true,
	ElementWind:      true,
	ElementHoly:      true,
	ElementDark:      true,
}

// IsMagical reports whether e is a true element rather than none or physical.
func (e Element) IsMagical() bool {
	return e != ElementNone && e != ElementPhysical
}

// Validate reports an error for an unknown element.
func (e Element) Validate() error {
	if !validElements[e] {
		return fmt.Errorf("unknown element %q", e)
	}
	return nil
}

// Effectiveness grades an attacking element against a defender's affinity.
type Effectiveness int

const (
	Neutral Effectiveness = iota
	SuperEffective
	Resisted
)

// beats maps each element to the element it is super effective against.
var beats = map[Element]Element{
	ElementFire:      ElementIce,
	ElementIce:       ElementEarth,
	ElementEarth:     ElementLightning,
	ElementLightning: ElementWind,
	ElementWind:      ElementFire,
}

// EffectivenessOf grades attack against defend.
//
// Holy and dark are super effective against each other; every other element is
// resisted by its own kind and by the element it would lose to.
func EffectivenessOf(attack, defend Element) Effectiveness {
	if !attack.IsMagical() || !defend.IsMagical() {
		return Neutral
	}
	if (attack == ElementHoly && defend == ElementDark) || (attack == ElementDark && defend == ElementHoly) {
		return SuperEffective
	}
	if beats[attack] == defend {
		return SuperEffective
	}
	if attack == defend || beats[defend] == attack {
		return Resisted
	}
	return Neutral
}
