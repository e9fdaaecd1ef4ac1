package ai_test

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// mockScriptCaller returns returnVal for every hook and records the last call.
type mockScriptCaller struct {
	returnVal  lua.LValue
	lastDomain string
	lastHook   string
	lastArg    lua.LValue
}

func (m *mockScriptCaller) CallHook(domainID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.lastDomain, m.lastHook = domainID, hook
	if len(args) > 0 {
		m.lastArg = args[0]
	}
	if m.returnVal == nil {
		return lua.LNil, nil
	}
	return m.returnVal, nil
}

func bruteDomain() *ai.Domain {
	return &ai.Domain{
		ID: "brute",
		Tasks: []*ai.Task{
			{ID: "behave"},
			{ID: "fight"},
		},
		Methods: []*ai.Method{
			{TaskID: "behave", ID: "combat_mode", Precondition: "has_enemy", Subtasks: []string{"fight"}},
			{TaskID: "behave", ID: "idle_mode", Precondition: "", Subtasks: []string{"do_pass"}},
			{TaskID: "fight", ID: "club", Precondition: "", Subtasks: []string{"attack_enemy"}},
		},
		Operators: []*ai.Operator{
			{ID: "attack_enemy", Action: "attack", Target: "nearest_enemy"},
			{ID: "do_pass", Action: "pass", Target: ""},
		},
	}
}

func goblinState() *ai.WorldState {
	self := &ai.CombatantState{UID: "goblin", Side: ai.SideEnemy, Name: "Goblin", HP: 10, MaxHP: 10, Pos: grid.Pos{X: 4, Y: 0}}
	return &ai.WorldState{
		Self: self,
		Combatants: []*ai.CombatantState{
			{UID: "player", Side: ai.SidePlayer, Name: "Hero", HP: 20, MaxHP: 20, Pos: grid.Pos{X: 0, Y: 0}},
			self,
		},
	}
}

func TestPlanner_Plan_ProducesAttackWhenPreconditionTrue(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LTrue}
	planner := ai.NewPlanner(bruteDomain(), caller)

	actions, err := planner.Plan(goblinState())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != ai.ActionAttack {
		t.Fatalf("expected one attack, got %v", actions)
	}
	if actions[0].Target != "player" {
		t.Fatalf("expected target UID 'player', got %q", actions[0].Target)
	}
}

func TestPlanner_Plan_CallsPreconditionInDomainVM(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LTrue}
	planner := ai.NewPlanner(bruteDomain(), caller)
	if _, err := planner.Plan(goblinState()); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if caller.lastDomain != "brute" || caller.lastHook != "has_enemy" {
		t.Fatalf("expected brute/has_enemy, got %s/%s", caller.lastDomain, caller.lastHook)
	}
	if caller.lastArg != lua.LString("goblin") {
		t.Fatalf("expected actor UID argument, got %v", caller.lastArg)
	}
}

func TestPlanner_Plan_FallsBackToPassWhenPreconditionFalse(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LFalse}
	planner := ai.NewPlanner(bruteDomain(), caller)

	actions, err := planner.Plan(goblinState())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != ai.ActionPass {
		t.Fatalf("expected pass fallback, got %v", actions)
	}
}

func TestPlanner_Plan_CastCarriesSpell(t *testing.T) {
	d := &ai.Domain{
		ID:        "caster",
		Tasks:     []*ai.Task{{ID: "behave"}},
		Methods:   []*ai.Method{{TaskID: "behave", ID: "nuke", Subtasks: []string{"bolt"}}},
		Operators: []*ai.Operator{{ID: "bolt", Action: "cast", Spell: "firebolt", Target: "weakest_enemy"}},
	}
	actions, err := ai.NewPlanner(d, &mockScriptCaller{}).Plan(goblinState())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Spell != "firebolt" || actions[0].Target != "player" {
		t.Fatalf("unexpected plan %v", actions)
	}
}

func TestPlanner_Plan_NilStateErrors(t *testing.T) {
	planner := ai.NewPlanner(bruteDomain(), &mockScriptCaller{})
	if _, err := planner.Plan(&ai.WorldState{}); err == nil {
		t.Fatal("expected error for missing Self")
	}
}

func TestPlanner_Plan_EmptyDomainReturnsEmpty(t *testing.T) {
	domain := &ai.Domain{
		ID:    "empty",
		Tasks: []*ai.Task{{ID: "behave"}},
	}
	actions, err := ai.NewPlanner(domain, &mockScriptCaller{}).Plan(goblinState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("expected no actions, got %v", actions)
	}
}

func TestNewPlanner_PanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil caller")
		}
	}()
	ai.NewPlanner(bruteDomain(), nil)
}

func TestProperty_Planner_NeverReturnsNilSlice(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var lv lua.LValue = lua.LFalse
		if rapid.Bool().Draw(rt, "precond") {
			lv = lua.LTrue
		}
		planner := ai.NewPlanner(bruteDomain(), &mockScriptCaller{returnVal: lv})
		actions, err := planner.Plan(goblinState())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if actions == nil {
			rt.Fatal("Plan must return non-nil slice")
		}
	})
}
