// Package npc provides enemy and drone template definitions and their reward tables.
package npc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Traits are creature capabilities consulted by movement, damage and the end resolver.
type Traits struct {
	Flying bool `yaml:"flying"`
	// Undead targets suppress lifesteal.
	Undead bool `yaml:"undead"`
	// AutoRevive creatures rise once at half HP unless sealed.
	AutoRevive bool `yaml:"auto_revive"`
	// ReviveChance is the initial chance to rise again; it halves after each success.
	ReviveChance float64 `yaml:"revive_chance"`
	// Swallow lets the creature engulf an adjacent target.
	Swallow bool `yaml:"swallow"`
	// SwallowDamage is the per-turn damage dealt to a swallowed target.
	SwallowDamage int `yaml:"swallow_damage"`
}

// Template defines a reusable enemy or drone archetype loaded from YAML.
type Template struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Level       int             `yaml:"level"`
	MaxHP       int             `yaml:"max_hp"`
	MaxMP       int             `yaml:"max_mp"`
	Stats       ruleset.Stats   `yaml:"stats"`
	Affinity    ruleset.Element `yaml:"affinity"`
	// Weapon, Armor and Shield reference inventory definitions; empty means none.
	Weapon   string            `yaml:"weapon"`
	Armor    string            `yaml:"armor"`
	Shield   string            `yaml:"shield"`
	Spells   []string          `yaml:"spells"`
	Passives []ruleset.Passive `yaml:"passives"`
	Movement int               `yaml:"movement"`
	Traits   Traits            `yaml:"traits"`
	AIDomain string            `yaml:"ai_domain"` // HTN domain ID; empty = simple attack fallback
	Rewards  *RewardTable      `yaml:"rewards"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1, MaxHP >= 1,
// MaxMP >= 0 and the reward table is valid; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("npc template %q: level must be >= 1", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("npc template %q: max_hp must be >= 1", t.ID)
	}
	if t.MaxMP < 0 {
		return fmt.Errorf("npc template %q: max_mp must be >= 0", t.ID)
	}
	if err := t.Affinity.Validate(); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	if t.Traits.ReviveChance < 0 || t.Traits.ReviveChance > 1 {
		return fmt.Errorf("npc template %q: revive_chance must be in [0, 1]", t.ID)
	}
	for _, p := range t.Passives {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	if t.Rewards != nil {
		if err := t.Rewards.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// Registry indexes templates by ID. It is read-only after loading.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry builds a Registry from templates.
//
// Postcondition: returns an error if two templates share an ID.
func NewRegistry(templates []*Template) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := r.templates[t.ID]; dup {
			return nil, fmt.Errorf("npc: template ID %q already registered", t.ID)
		}
		r.templates[t.ID] = t
	}
	return r, nil
}

// Get returns the template for id and whether it was found.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// All returns every template sorted by ID.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
