// Package dice provides the randomness abstraction and roll-result types used
// by the combat engine.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // e.g. "2d6+3"
	Dice       []int  // individual faces after any face rewrite
	Modifier   int
}

// Total returns the sum of all faces plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// Add merges other into r, concatenating faces and summing modifiers.
// The expression of r is kept.
func (r RollResult) Add(other RollResult) RollResult {
	faces := make([]int, 0, len(r.Dice)+len(other.Dice))
	faces = append(faces, r.Dice...)
	faces = append(faces, other.Dice...)
	return RollResult{Expression: r.Expression, Dice: faces, Modifier: r.Modifier + other.Modifier}
}

// String returns an audit string in the format "2d6+3 → [4 5] +3 = 12".
func (r RollResult) String() string {
	expr := r.Expression
	if expr == "" {
		expr = "?"
	}
	return fmt.Sprintf("%s → %v %+d = %d", expr, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
