package ruleset

import (
	"errors"
	"fmt"
)

// RaceDef defines a playable or creature race.
type RaceDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Article     string `yaml:"article"`
	Description string `yaml:"description"`
	// Movement is added to the base movement budget.
	Movement int       `yaml:"movement"`
	Flying   bool      `yaml:"flying"`
	Undead   bool      `yaml:"undead"`
	Stats    Stats     `yaml:"stats"`
	Passives []Passive `yaml:"passives"`
}

// DisplayName returns the race name with its grammatical article.
// If Article is empty, returns Name alone.
func (r *RaceDef) DisplayName() string {
	if r.Article == "" {
		return r.Name
	}
	return r.Article + " " + r.Name
}

// Validate checks the race's invariants.
func (r *RaceDef) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for _, p := range r.Passives {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("race %q: %w", r.ID, errors.Join(errs...))
	}
	return nil
}
