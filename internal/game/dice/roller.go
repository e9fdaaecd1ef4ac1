package dice

// FaceRule rewrites a single rolled face; it is applied to every die of a roll.
type FaceRule func(face int) int

// RaiseOnes rewrites a rolled 1 to a 2.
func RaiseOnes(face int) int {
	if face == 1 {
		return 2
	}
	return face
}

// Roll evaluates expr using src, applying rules to each face in order.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count.
func Roll(expr Expression, src Source, rules ...FaceRule) RollResult {
	faces := make([]int, expr.Count)
	for i := range faces {
		face := src.Intn(expr.Sides) + 1
		for _, rule := range rules {
			face = rule(face)
		}
		faces[i] = face
	}
	raw := expr.Raw
	if raw == "" {
		raw = expr.String()
	}
	return RollResult{Expression: raw, Dice: faces, Modifier: expr.Modifier}
}

// RollExpr parses expr and rolls it using src in a single call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}
