package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptCaller is the interface required by the Planner to evaluate Lua preconditions.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given domain's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(domainID, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Action string // one of the Action* constants
	Target string // resolved target UID; empty for pass
	Spell  string // spell ID for cast
}

// Planner evaluates an HTN domain for a single actor and produces an ordered
// action plan for the current combat round.
//
// Invariant: domain and caller must not be nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
}

// NewPlanner constructs a Planner. Preconditions are looked up in the
// script VM registered under the domain's ID.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller}
}

// maxExpansions bounds how many tasks one Plan call may expand.
const maxExpansions = 32

// Plan decomposes the domain's root task against state and returns the
// primitive actions in execution order.
//
// Precondition: state and state.Self must not be nil.
// Postcondition: returns a non-nil slice (may be empty); Lua failures never
// surface as errors, the failing method is simply skipped.
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Self == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Self must not be nil")
	}

	plan := []PlannedAction{}
	agenda := []string{p.domain.Root()}
	for n := 0; len(agenda) > 0 && n < maxExpansions; n++ {
		next := agenda[0]
		agenda = agenda[1:]

		if op, ok := p.domain.OperatorByID(next); ok {
			plan = append(plan, PlannedAction{Action: op.Action, Target: state.ResolveTarget(op.Target), Spell: op.Spell})
			continue
		}
		m := p.method(next, state)
		if m == nil {
			continue
		}
		expanded := make([]string, 0, len(m.Subtasks)+len(agenda))
		agenda = append(append(expanded, m.Subtasks...), agenda...)
	}
	return plan, nil
}

// method returns the first method for taskID, in declaration order, whose
// precondition hook returns true. An empty precondition always holds.
func (p *Planner) method(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		if val, _ := p.caller.CallHook(p.domain.ID, m.Precondition, lua.LString(state.Self.UID)); val == lua.LTrue {
			return m
		}
	}
	return nil
}
