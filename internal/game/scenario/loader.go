package scenario

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// yamlFile is the top-level YAML structure for scenario files.
type yamlFile struct {
	Scenario yamlScenario `yaml:"scenario"`
}

type yamlScenario struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Inescapable bool        `yaml:"inescapable"`
	Grid        yamlGrid    `yaml:"grid"`
	Player      yamlHero    `yaml:"player"`
	Ally        *yamlHero   `yaml:"ally"`
	Enemies     []yamlEnemy `yaml:"enemies"`
}

type yamlGrid struct {
	Width    int          `yaml:"width"`
	Height   int          `yaml:"height"`
	Inactive []yamlCell   `yaml:"inactive"`
	Objects  []yamlObject `yaml:"objects"`
}

type yamlCell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type yamlObject struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	HP   int    `yaml:"hp"`
}

type yamlHero struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Class    string         `yaml:"class"`
	Race     string         `yaml:"race"`
	MaxHP    int            `yaml:"max_hp"`
	MaxMP    int            `yaml:"max_mp"`
	Stats    ruleset.Stats  `yaml:"stats"`
	Weapon   string         `yaml:"weapon"`
	Armor    string         `yaml:"armor"`
	Shield   string         `yaml:"shield"`
	Catalyst string         `yaml:"catalyst"`
	Spells   []string       `yaml:"spells"`
	Skills   []string       `yaml:"skills"`
	Items    map[string]int `yaml:"items"`
	X        int            `yaml:"x"`
	Y        int            `yaml:"y"`
}

type yamlEnemy struct {
	ID       string `yaml:"id"`
	Template string `yaml:"template"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
}

// LoadFromFile reads and validates a single scenario YAML file.
//
// Precondition: path must point to a valid YAML scenario file.
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadFromFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	s, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading scenario from %s: %w", path, err)
	}
	return s, nil
}

// LoadFromBytes parses and validates a scenario from YAML bytes. Unknown keys
// are rejected.
//
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadFromBytes(data []byte) (*Scenario, error) {
	var file yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	s, err := convert(file.Scenario)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return s, nil
}

func convert(ys yamlScenario) (*Scenario, error) {
	s := &Scenario{
		ID:          ys.ID,
		Name:        ys.Name,
		Description: strings.TrimSpace(ys.Description),
		Width:       ys.Grid.Width,
		Height:      ys.Grid.Height,
		Inescapable: ys.Inescapable,
		Player:      convertHero(ys.Player, DefaultPlayerID),
	}
	if s.Name == "" {
		s.Name = s.ID
	}
	for _, c := range ys.Grid.Inactive {
		s.Inactive = append(s.Inactive, grid.Pos{X: c.X, Y: c.Y})
	}
	for _, yo := range ys.Grid.Objects {
		kind, err := parseKind(yo.Kind)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", yo.ID, err)
		}
		s.Objects = append(s.Objects, Object{ID: yo.ID, Kind: kind, Pos: grid.Pos{X: yo.X, Y: yo.Y}, HP: yo.HP})
	}
	if ys.Ally != nil {
		ally := convertHero(*ys.Ally, DefaultAllyID)
		s.Ally = &ally
	}
	perTemplate := make(map[string]int)
	for _, ye := range ys.Enemies {
		id := ye.ID
		if id == "" {
			perTemplate[ye.Template]++
			id = fmt.Sprintf("%s-%d", ye.Template, perTemplate[ye.Template])
		}
		s.Enemies = append(s.Enemies, EnemySpawn{ID: id, Template: ye.Template, Pos: grid.Pos{X: ye.X, Y: ye.Y}})
	}
	return s, nil
}

func convertHero(yh yamlHero, defaultID string) Hero {
	h := Hero{
		ID:       yh.ID,
		Name:     yh.Name,
		Class:    yh.Class,
		Race:     yh.Race,
		MaxHP:    yh.MaxHP,
		MaxMP:    yh.MaxMP,
		Stats:    yh.Stats,
		Weapon:   yh.Weapon,
		Armor:    yh.Armor,
		Shield:   yh.Shield,
		Catalyst: yh.Catalyst,
		Spells:   yh.Spells,
		Skills:   yh.Skills,
		Items:    yh.Items,
		Pos:      grid.Pos{X: yh.X, Y: yh.Y},
	}
	if h.ID == "" {
		h.ID = defaultID
	}
	return h
}

func parseKind(s string) (grid.ObjectKind, error) {
	switch s {
	case "terrain":
		return grid.ObjectTerrain, nil
	case "obstacle":
		return grid.ObjectObstacle, nil
	default:
		return 0, fmt.Errorf("kind must be terrain or obstacle, got %q", s)
	}
}
