package ai_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"pgregory.net/rapid"
)

func TestDomain_Validate_RejectsEmpty(t *testing.T) {
	d := &ai.Domain{}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for empty Domain")
	}
}

func TestDomain_Validate_AcceptsMinimal(t *testing.T) {
	d := &ai.Domain{
		ID:    "test",
		Tasks: []*ai.Task{{ID: "root"}},
		Methods: []*ai.Method{{
			TaskID:   "root",
			ID:       "m1",
			Subtasks: []string{"op1"},
		}},
		Operators: []*ai.Operator{{ID: "op1", Action: "pass"}},
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDomain_Validate_RejectsDuplicateMethod(t *testing.T) {
	d := &ai.Domain{
		ID:    "test",
		Tasks: []*ai.Task{{ID: "root"}},
		Methods: []*ai.Method{
			{TaskID: "root", ID: "m1", Subtasks: []string{"op1"}},
			{TaskID: "root", ID: "m1", Subtasks: []string{"op1"}},
		},
		Operators: []*ai.Operator{{ID: "op1", Action: "pass"}},
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for duplicate method ID")
	}
}

func TestDomain_Root(t *testing.T) {
	d := &ai.Domain{Tasks: []*ai.Task{{ID: "hunt"}, {ID: "flee"}}}
	if got := d.Root(); got != "hunt" {
		t.Fatalf("Root() = %q, want hunt", got)
	}
	if got := (&ai.Domain{}).Root(); got != "" {
		t.Fatalf("Root() of empty domain = %q, want empty", got)
	}
}

func TestDomain_OperatorByID_Found(t *testing.T) {
	d := &ai.Domain{
		Operators: []*ai.Operator{{ID: "bite", Action: "attack", Target: "nearest_enemy"}},
	}
	op, ok := d.OperatorByID("bite")
	if !ok || op.Action != "attack" {
		t.Fatal("expected to find operator")
	}
}

func TestDomain_OperatorByID_NotFound(t *testing.T) {
	d := &ai.Domain{}
	_, ok := d.OperatorByID("missing")
	if ok {
		t.Fatal("expected not found")
	}
}

func TestDomain_MethodsForTask_ReturnsOrdered(t *testing.T) {
	d := &ai.Domain{
		Methods: []*ai.Method{
			{TaskID: "hunt", ID: "m1", Subtasks: []string{"op1"}},
			{TaskID: "hunt", ID: "m2", Subtasks: []string{"op2"}},
			{TaskID: "other", ID: "m3", Subtasks: []string{"op3"}},
		},
	}
	methods := d.MethodsForTask("hunt")
	if len(methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(methods))
	}
	if methods[0].ID != "m1" || methods[1].ID != "m2" {
		t.Fatalf("expected methods in declaration order [m1, m2], got [%s, %s]", methods[0].ID, methods[1].ID)
	}
}

func TestDomain_Validate_RejectsUnknownAction(t *testing.T) {
	d := &ai.Domain{
		ID:        "test",
		Tasks:     []*ai.Task{{ID: "behave"}},
		Methods:   []*ai.Method{{TaskID: "behave", ID: "m1", Subtasks: []string{"op1"}}},
		Operators: []*ai.Operator{{ID: "op1", Action: "reload"}},
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestDomain_Validate_CastRequiresSpell(t *testing.T) {
	d := &ai.Domain{
		ID:        "test",
		Tasks:     []*ai.Task{{ID: "behave"}},
		Methods:   []*ai.Method{{TaskID: "behave", ID: "m1", Subtasks: []string{"op1"}}},
		Operators: []*ai.Operator{{ID: "op1", Action: "cast", Target: "nearest_enemy"}},
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for cast without spell")
	}
}

func TestDomain_Validate_RejectsDanglingSubtask(t *testing.T) {
	d := &ai.Domain{
		ID:        "test",
		Tasks:     []*ai.Task{{ID: "behave"}},
		Methods:   []*ai.Method{{TaskID: "behave", ID: "m1", Subtasks: []string{"missing"}}},
		Operators: []*ai.Operator{{ID: "op1", Action: "pass"}},
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for dangling subtask")
	}
}

func writeDomain(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadDomains_LoadsYAML(t *testing.T) {
	dir := writeDomain(t, `
domain:
  id: caster
  description: Test
  tasks:
    - id: behave
      description: root
  methods:
    - task: behave
      id: nuke
      precondition: caster_has_mana
      subtasks: [firebolt]
    - task: behave
      id: default
      subtasks: [idle]
  operators:
    - id: firebolt
      action: cast
      spell: firebolt
      target: weakest_enemy
    - id: idle
      action: pass
`)
	domains, err := ai.LoadDomains(dir)
	if err != nil {
		t.Fatalf("LoadDomains: %v", err)
	}
	if len(domains) != 1 || domains[0].ID != "caster" {
		t.Fatalf("unexpected domains: %v", domains)
	}
	op, ok := domains[0].OperatorByID("firebolt")
	if !ok || op.Spell != "firebolt" {
		t.Fatalf("expected firebolt operator with spell, got %+v", op)
	}
}

func TestLoadDomains_RejectsUnknownField(t *testing.T) {
	dir := writeDomain(t, `
domain:
  id: test
  tasks:
    - id: behave
  methods:
    - task: behave
      id: default
      subtasks: [idle]
  operators:
    - id: idle
      action: pass
      cooldown: 3
`)
	if _, err := ai.LoadDomains(dir); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadDomains_MissingDomainKey(t *testing.T) {
	dir := writeDomain(t, "id: test\n")
	if _, err := ai.LoadDomains(dir); err == nil {
		t.Fatal("expected error for missing domain key")
	}
}

func TestProperty_Domain_OperatorByID_ConsistentLookup(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		// Build a domain with 1-5 operators with distinct IDs
		n := rapid.IntRange(1, 5).Draw(rt, "n")
		ops := make([]*ai.Operator, n)
		ids := make([]string, n)
		for i := range ops {
			id := fmt.Sprintf("op%d", i)
			ids[i] = id
			ops[i] = &ai.Operator{ID: id, Action: "pass"}
		}
		d := &ai.Domain{Operators: ops}

		// Property: every ID in the list is found
		for _, id := range ids {
			op, ok := d.OperatorByID(id)
			if !ok {
				rt.Fatalf("OperatorByID(%q) returned not found, expected found", id)
			}
			if op.ID != id {
				rt.Fatalf("OperatorByID(%q) returned op with ID %q", id, op.ID)
			}
		}

		// Property: a random ID not in the list is not found
		unknown := rapid.StringMatching(`[a-z_]{1,10}`).Draw(rt, "unknown")
		inList := false
		for _, id := range ids {
			if id == unknown {
				inList = true
				break
			}
		}
		if !inList {
			_, ok := d.OperatorByID(unknown)
			if ok {
				rt.Fatalf("OperatorByID(%q) returned found, expected not found", unknown)
			}
		}
	})
}
