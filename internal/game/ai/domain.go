// Package ai chooses intents for every computer-controlled combatant: enemies
// plan through Hierarchical Task Network (HTN) domains, allies follow a fixed
// priority list and drones chase the nearest reachable enemy.
//
// HTN planning decomposes abstract tasks into primitive operators via ordered methods.
// Method preconditions are evaluated as Lua hooks; operators map to combat intents.
package ai

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Operator actions.
const (
	ActionAttack  = "attack"
	ActionCast    = "cast"
	ActionSwallow = "swallow"
	ActionMove    = "move"
	ActionPass    = "pass"
)

var validActions = map[string]bool{
	ActionAttack:  true,
	ActionCast:    true,
	ActionSwallow: true,
	ActionMove:    true,
	ActionPass:    true,
}

// Target tokens understood by WorldState.ResolveTarget.
const (
	TargetNearestEnemy = "nearest_enemy"
	TargetWeakestEnemy = "weakest_enemy"
	TargetSelf         = "self"
)

// Task is an abstract goal that can be decomposed by methods.
//
// Precondition: ID must be non-empty.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtasks or operator IDs.
//
// Precondition: TaskID, ID, and Subtasks must be non-empty.
// Precondition: Precondition is a Lua function name; empty means always applicable.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"` // Lua function name; empty = always applicable
	Subtasks     []string `yaml:"subtasks"`
}

// Operator is a primitive action that maps directly to a combat intent.
//
// Precondition: ID and Action must be non-empty; Spell is required for cast.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"` // attack, cast, swallow, move, pass
	Target string `yaml:"target"` // "nearest_enemy", "weakest_enemy", "self", or a combatant ID
	Spell  string `yaml:"spell"`
}

// Domain holds the full HTN domain loaded from a YAML file.
//
// Invariant: all Task, Method, and Operator IDs are unique within their slice.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// Validate checks required fields and cross references.
//
// Postcondition: nil means the domain has an ID and at least one task, every
// ID is non-empty and unique within its kind, every method names a known task
// and decomposes into known tasks or operators, and every operator has a
// known action (cast operators also name a spell).
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: ID must not be empty")
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("ai.Domain %q: must have at least one task", d.ID)
	}
	tasks, err := uniqueIDs(d.ID, "task", d.Tasks, func(t *Task) string { return t.ID })
	if err != nil {
		return err
	}
	if _, err := uniqueIDs(d.ID, "method", d.Methods, func(m *Method) string { return m.ID }); err != nil {
		return err
	}
	ops, err := uniqueIDs(d.ID, "operator", d.Operators, func(o *Operator) string { return o.ID })
	if err != nil {
		return err
	}

	for _, op := range d.Operators {
		switch {
		case !validActions[op.Action]:
			return fmt.Errorf("ai.Domain %q operator %q: unknown action %q", d.ID, op.ID, op.Action)
		case op.Action == ActionCast && op.Spell == "":
			return fmt.Errorf("ai.Domain %q operator %q: cast requires a spell", d.ID, op.ID)
		}
	}
	for _, m := range d.Methods {
		if !tasks[m.TaskID] {
			return fmt.Errorf("ai.Domain %q method %q: unknown task %q", d.ID, m.ID, m.TaskID)
		}
		if len(m.Subtasks) == 0 {
			return fmt.Errorf("ai.Domain %q method %q: subtasks must not be empty", d.ID, m.ID)
		}
		for _, sub := range m.Subtasks {
			if !tasks[sub] && !ops[sub] {
				return fmt.Errorf("ai.Domain %q method %q: subtask %q is neither a task nor an operator", d.ID, m.ID, sub)
			}
		}
	}
	return nil
}

// uniqueIDs indexes the IDs of items, rejecting empty and repeated ones.
func uniqueIDs[T any](domain, kind string, items []T, id func(T) string) (map[string]bool, error) {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		k := id(it)
		if k == "" {
			return nil, fmt.Errorf("ai.Domain %q: %s has empty ID", domain, kind)
		}
		if seen[k] {
			return nil, fmt.Errorf("ai.Domain %q: duplicate %s ID %q", domain, kind, k)
		}
		seen[k] = true
	}
	return seen, nil
}

// Root returns the task planning starts from: the first declared task.
func (d *Domain) Root() string {
	if len(d.Tasks) == 0 {
		return ""
	}
	return d.Tasks[0].ID
}

// OperatorByID returns the operator with the given ID, or false if not found.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns all methods that decompose taskID, in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

// yamlDomainFile wraps the YAML top-level key.
type yamlDomainFile struct {
	Domain *Domain `yaml:"domain"`
}

// LoadDomains reads all *.yaml files from dir and returns parsed Domains.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any YAML file fails to parse or validate.
// Postcondition: returns (nil, nil) if dir contains no .yaml files; callers should treat empty results as a configuration error if domains are required.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: reading %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: reading %s: %w", e.Name(), err)
		}
		var f yamlDomainFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: parsing %s: %w", e.Name(), err)
		}
		if f.Domain == nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s missing top-level 'domain' key", e.Name())
		}
		if err := f.Domain.Validate(); err != nil {
			return nil, err
		}
		domains = append(domains, f.Domain)
	}
	return domains, nil
}
