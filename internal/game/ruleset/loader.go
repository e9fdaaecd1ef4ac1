package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Subdirectories of a ruleset content root.
const (
	SpellsDir  = "spells"
	SkillsDir  = "skills"
	ClassesDir = "classes"
	RacesDir   = "races"
)

type validator interface {
	Validate() error
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

// loadDefs parses and validates every YAML file in dir as a T.
// A missing directory yields no definitions.
func loadDefs[T any, P interface {
	*T
	validator
}](dir string) ([]P, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]P, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var v T
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		p := P(&v)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadSpells reads every spell file in dir.
func LoadSpells(dir string) ([]*SpellDef, error) { return loadDefs[SpellDef](dir) }

// LoadSkills reads every skill file in dir.
func LoadSkills(dir string) ([]*SkillDef, error) { return loadDefs[SkillDef](dir) }

// LoadClasses reads every class file in dir.
func LoadClasses(dir string) ([]*ClassDef, error) { return loadDefs[ClassDef](dir) }

// LoadRaces reads every race file in dir.
func LoadRaces(dir string) ([]*RaceDef, error) { return loadDefs[RaceDef](dir) }

// LoadDirectory loads the spells, skills, classes and races subdirectories of
// root into a new Registry. Missing subdirectories are skipped.
//
// Postcondition: returns an error on the first unreadable, invalid or duplicate definition.
func LoadDirectory(root string) (*Registry, error) {
	reg := NewRegistry()
	spells, err := LoadSpells(filepath.Join(root, SpellsDir))
	if err != nil {
		return nil, err
	}
	for _, s := range spells {
		if err := reg.RegisterSpell(s); err != nil {
			return nil, err
		}
	}
	skills, err := LoadSkills(filepath.Join(root, SkillsDir))
	if err != nil {
		return nil, err
	}
	for _, s := range skills {
		if err := reg.RegisterSkill(s); err != nil {
			return nil, err
		}
	}
	classes, err := LoadClasses(filepath.Join(root, ClassesDir))
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		if err := reg.RegisterClass(c); err != nil {
			return nil, err
		}
	}
	races, err := LoadRaces(filepath.Join(root, RacesDir))
	if err != nil {
		return nil, err
	}
	for _, rc := range races {
		if err := reg.RegisterRace(rc); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
