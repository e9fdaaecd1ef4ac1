package ai

import (
	"fmt"
	"sort"
)

// Registry maps an NPC template's ai_domain to the planner that drives every
// enemy of that behaviour. Scripted preconditions for all domains go through
// one caller, which picks the Lua VM by domain ID.
type Registry struct {
	planners map[string]*Planner
}

// NewRegistry returns a Registry with no behaviours.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register adds the planner for a behaviour domain.
//
// Precondition: domain has passed Validate; caller is non-nil.
// Postcondition: an ID already held by another behaviour is refused and the
// existing planner is kept.
func (r *Registry) Register(domain *Domain, caller ScriptCaller) error {
	if domain == nil {
		return fmt.Errorf("registering behaviour: nil domain")
	}
	if _, dup := r.planners[domain.ID]; dup {
		return fmt.Errorf("behaviour %q is registered twice", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain, caller)
	return nil
}

// PlannerFor returns the planner for an enemy's ai_domain.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// Domains lists the registered behaviour IDs in order.
func (r *Registry) Domains() []string {
	ids := make([]string, 0, len(r.planners))
	for id := range r.planners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
