package status

import (
	"fmt"
	"sort"
)

// Indefinite marks an effect that persists until cleansed or the encounter ends.
const Indefinite = -1

// Effect is one applied status effect on a combatant.
type Effect struct {
	Def *Def
	// Duration is the number of owner turn ends left, or Indefinite.
	Duration int
	// Magnitude is effect-specific: a chance for Tailwind, an MP surcharge for ManaBurn,
	// a multiplier for Weakened and Guarded.
	Magnitude float64
	// PerTick is the HP lost or gained on each tick by periodic effects.
	PerTick int
}

// Expired reports whether the effect has run out.
func (e *Effect) Expired() bool {
	return e.Duration != Indefinite && e.Duration <= 0
}

// TickResult reports what a Tick did to one effect.
type TickResult struct {
	ID ID
	// Damage is periodic HP loss; Heal is periodic HP gain.
	Damage  int
	Heal    int
	Expired bool
}

// Set tracks every effect currently applied to one combatant.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	effects map[ID]*Effect
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{effects: make(map[ID]*Effect)}
}

// Apply places an effect on the owner. Re-applying an ID replaces the previous
// duration, magnitude and per-tick amount; effects never stack.
//
// Precondition: def must not be nil; duration > 0 or duration == Indefinite.
// Postcondition: Has(def.ID) is true and Get(def.ID) reflects exactly the given values.
func (s *Set) Apply(def *Def, duration int, magnitude float64, perTick int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if duration == 0 || duration < Indefinite {
		return fmt.Errorf("Apply %q: duration must be positive or Indefinite, got %d", def.ID, duration)
	}
	s.effects[def.ID] = &Effect{Def: def, Duration: duration, Magnitude: magnitude, PerTick: perTick}
	return nil
}

// Remove deletes the effect with id. Removing an absent effect is a no-op.
func (s *Set) Remove(id ID) {
	delete(s.effects, id)
}

// Has reports whether id is currently applied.
func (s *Set) Has(id ID) bool {
	_, ok := s.effects[id]
	return ok
}

// Get returns the applied effect for id.
func (s *Set) Get(id ID) (*Effect, bool) {
	e, ok := s.effects[id]
	return e, ok
}

// Magnitude returns the magnitude of id, or 0 when absent.
func (s *Set) Magnitude(id ID) float64 {
	if e, ok := s.effects[id]; ok {
		return e.Magnitude
	}
	return 0
}

// Len returns the number of applied effects.
func (s *Set) Len() int {
	return len(s.effects)
}

// All returns the applied effects sorted by ID.
// The slice is a new allocation but the Effects are shared.
func (s *Set) All() []*Effect {
	out := make([]*Effect, 0, len(s.effects))
	for _, e := range s.effects {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.ID < out[j].Def.ID })
	return out
}

// Incapacitated reports whether any applied effect skips the owner's turn.
func (s *Set) Incapacitated() bool {
	for _, e := range s.effects {
		if e.Def.Incapacitating {
			return true
		}
	}
	return false
}

// OnlyStruggle reports whether any applied effect limits the owner to struggling.
func (s *Set) OnlyStruggle() bool {
	for _, e := range s.effects {
		if e.Def.OnlyStruggle {
			return true
		}
	}
	return false
}

// Unbind removes every only-struggle effect and returns the removed IDs in order.
func (s *Set) Unbind() []ID {
	var removed []ID
	for _, e := range s.All() {
		if e.Def.OnlyStruggle {
			removed = append(removed, e.Def.ID)
			delete(s.effects, e.Def.ID)
		}
	}
	return removed
}

// MovementDelta sums the movement modifiers of every applied effect.
func (s *Set) MovementDelta() int {
	total := 0
	for _, e := range s.effects {
		total += e.Def.MovementDelta
	}
	return total
}

// Tick advances every effect by one owner turn end, in ID order. Periodic
// effects report their per-tick amount; finite durations are decremented and
// effects reaching zero are removed.
//
// Postcondition: for every result with Expired set, Has(result.ID) is false;
// Indefinite effects are never decremented.
func (s *Set) Tick() []TickResult {
	var results []TickResult
	for _, e := range s.All() {
		r := TickResult{ID: e.Def.ID}
		switch e.Def.Periodic {
		case PeriodicDamage:
			r.Damage = e.PerTick
		case PeriodicHeal:
			r.Heal = e.PerTick
		}
		if e.Duration != Indefinite {
			e.Duration--
			if e.Expired() {
				r.Expired = true
				delete(s.effects, e.Def.ID)
			}
		}
		if r.Damage != 0 || r.Heal != 0 || r.Expired {
			results = append(results, r)
		}
	}
	return results
}

// Cleanse removes every cleansable debuff and returns the removed IDs in order.
func (s *Set) Cleanse() []ID {
	var removed []ID
	for _, e := range s.All() {
		if e.Def.Category == CategoryDebuff && e.Def.Cleansable {
			removed = append(removed, e.Def.ID)
			delete(s.effects, e.Def.ID)
		}
	}
	return removed
}

// Clear removes every effect. It runs at encounter end.
func (s *Set) Clear() {
	for id := range s.effects {
		delete(s.effects, id)
	}
}
