package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression of the form NdS(+|-)M.
//
// Invariant: Count >= 1, Sides >= 2 after a successful Parse.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// String renders the expression in canonical form.
func (e Expression) String() string {
	s := fmt.Sprintf("%dd%d", e.Count, e.Sides)
	if e.Modifier != 0 {
		s += fmt.Sprintf("%+d", e.Modifier)
	}
	return s
}

// WithExtraDice returns a copy of e with n additional dice.
func (e Expression) WithExtraDice(n int) Expression {
	e.Count += n
	if e.Count < 1 {
		e.Count = 1
	}
	e.Raw = e.String()
	return e
}

// WithUpgradedDie returns a copy of e whose die size grows by steps.
func (e Expression) WithUpgradedDie(steps int) Expression {
	e.Sides += steps
	if e.Sides < 2 {
		e.Sides = 2
	}
	e.Raw = e.String()
	return e
}

// IsZero reports whether e is the zero Expression (nothing to roll).
func (e Expression) IsZero() bool {
	return e.Count == 0 && e.Sides == 0
}

// Parse parses "d20", "2d6", "2d6+3" or "4d8-2" into an Expression.
// The empty string is rejected.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	countPart, rest, ok := strings.Cut(s, "d")
	if !ok {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}

	count := 1
	if countPart != "" {
		n, err := strconv.Atoi(countPart)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: die count in %q must be >= 1", expr)
		}
		count = n
	}

	sidesPart, modPart := rest, ""
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sidesPart, modPart = rest[:i], rest[i:]
	}
	sides, err := strconv.Atoi(sidesPart)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: die sides in %q must be >= 2", expr)
	}

	mod := 0
	if modPart != "" {
		mod, err = strconv.Atoi(modPart)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}
	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: mod}, nil
}

// MustParse parses expr and panics on error. Useful for package-level constants.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
