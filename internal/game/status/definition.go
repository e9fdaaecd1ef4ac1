// Package status implements the per-combatant status effect registry:
// definitions, application with replace semantics, turn-end ticking, expiry and cleansing.
package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ID keys a status effect definition.
type ID string

// Built-in status effects referenced by engine rules.
const (
	Paralyzed ID = "paralyzed"
	Petrified ID = "petrified"
	Swallowed ID = "swallowed"
	Burn      ID = "burn"
	Poison    ID = "poison"
	Regen     ID = "regen"
	Hasted    ID = "hasted"
	Slowed    ID = "slowed"
	Tailwind  ID = "tailwind"
	WellFed   ID = "well_fed"
	Flurry    ID = "flurry"
	Reflect   ID = "reflect"
	ManaBurn  ID = "mana_burn"
	Sealed    ID = "sealed"
	Weakened  ID = "weakened"
	Guarded   ID = "guarded"
)

// Category classifies an effect for cleansing and AI decisions.
type Category string

const (
	CategoryBuff   Category = "buff"
	CategoryDebuff Category = "debuff"
)

// Periodic names what an effect does on each tick.
type Periodic string

const (
	PeriodicNone   Periodic = ""
	PeriodicDamage Periodic = "damage"
	PeriodicHeal   Periodic = "heal"
)

// Def is the static definition of a status effect.
type Def struct {
	ID       ID       `yaml:"id"`
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	Periodic Periodic `yaml:"periodic"`
	// Incapacitating effects force-skip the owner's turn.
	Incapacitating bool `yaml:"incapacitating"`
	// OnlyStruggle restricts the owner to the struggle intent.
	OnlyStruggle bool `yaml:"only_struggle"`
	// ExtraTurn effects grant the player one extra turn per round.
	ExtraTurn bool `yaml:"extra_turn"`
	// Cleansable debuffs are removed by cleanse effects.
	Cleansable      bool `yaml:"cleansable"`
	DefaultDuration int  `yaml:"default_duration"`
	// MovementDelta is added to the owner's movement budget.
	MovementDelta int `yaml:"movement_delta"`
	// ChanceCap bounds the infliction chance of this effect; 0 means uncapped.
	ChanceCap float64 `yaml:"chance_cap"`
}

// CapChance bounds an infliction chance by the effect's own cap.
func (d *Def) CapChance(c float64) float64 {
	if d.ChanceCap > 0 && c > d.ChanceCap {
		return d.ChanceCap
	}
	return c
}

// Validate checks the definition's invariants.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("status definition: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("status %q: name must not be empty", d.ID)
	}
	switch d.Category {
	case CategoryBuff, CategoryDebuff:
	default:
		return fmt.Errorf("status %q: category must be buff or debuff, got %q", d.ID, d.Category)
	}
	switch d.Periodic {
	case PeriodicNone, PeriodicDamage, PeriodicHeal:
	default:
		return fmt.Errorf("status %q: periodic must be damage, heal or empty, got %q", d.ID, d.Periodic)
	}
	return nil
}

// Registry holds every known Def keyed by ID. It is read-only after loading.
type Registry struct {
	defs map[ID]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[ID]*Def)}
}

// DefaultRegistry returns a Registry seeded with the built-in effects.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range builtins() {
		r.Register(d)
	}
	return r
}

func builtins() []*Def {
	return []*Def{
		{ID: Paralyzed, Name: "Paralyzed", Category: CategoryDebuff, Incapacitating: true, Cleansable: true, DefaultDuration: 1, ChanceCap: 0.35},
		{ID: Petrified, Name: "Petrified", Category: CategoryDebuff, Incapacitating: true, Cleansable: true, DefaultDuration: 2, ChanceCap: 0.25},
		{ID: Swallowed, Name: "Swallowed", Category: CategoryDebuff, Periodic: PeriodicDamage, OnlyStruggle: true, DefaultDuration: -1},
		{ID: Burn, Name: "Burning", Category: CategoryDebuff, Periodic: PeriodicDamage, Cleansable: true, DefaultDuration: 3, ChanceCap: 0.6},
		{ID: Poison, Name: "Poisoned", Category: CategoryDebuff, Periodic: PeriodicDamage, Cleansable: true, DefaultDuration: 4, ChanceCap: 0.6},
		{ID: Regen, Name: "Regenerating", Category: CategoryBuff, Periodic: PeriodicHeal, DefaultDuration: 3},
		{ID: Hasted, Name: "Hasted", Category: CategoryBuff, ExtraTurn: true, MovementDelta: 1, DefaultDuration: 3},
		{ID: Slowed, Name: "Slowed", Category: CategoryDebuff, MovementDelta: -1, Cleansable: true, DefaultDuration: 2, ChanceCap: 0.5},
		{ID: Tailwind, Name: "Tailwind", Category: CategoryBuff, DefaultDuration: 3},
		{ID: WellFed, Name: "Well Fed", Category: CategoryBuff, MovementDelta: 1, DefaultDuration: -1},
		{ID: Flurry, Name: "Flurry", Category: CategoryBuff, DefaultDuration: 2},
		{ID: Reflect, Name: "Reflecting", Category: CategoryBuff, DefaultDuration: 2},
		{ID: ManaBurn, Name: "Mana Burn", Category: CategoryDebuff, Cleansable: true, DefaultDuration: 3, ChanceCap: 0.4},
		{ID: Sealed, Name: "Sealed", Category: CategoryDebuff, DefaultDuration: -1},
		{ID: Weakened, Name: "Weakened", Category: CategoryDebuff, Cleansable: true, DefaultDuration: 2, ChanceCap: 0.5},
		{ID: Guarded, Name: "Guarded", Category: CategoryBuff, DefaultDuration: 2},
	}
}

// Register adds def, overwriting any existing entry with the same ID.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id ID) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered Def sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir into reg. Definitions in files
// override built-ins with the same ID; unknown YAML fields are rejected.
//
// Postcondition: returns an error naming the first file that fails to parse or validate.
func LoadDirectory(reg *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return nil
}
