package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roller wraps a Source and logger to provide logged dice rolling.
// Every roll is logged at debug level with expression, faces, modifier and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
// A nil logger is replaced with a no-op logger.
//
// Precondition: src must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Intn exposes the underlying Source so a Roller can be passed anywhere a Source is expected.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// Roll evaluates expr, applying rules to each face, and logs the result.
func (r *Roller) Roll(expr Expression, rules ...FaceRule) RollResult {
	result := Roll(expr, r.src, rules...)
	r.log(result)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// RollDice rolls count dice with sides faces and exposes the individual faces.
// Counts below 1 yield an empty result.
//
// Precondition: sides >= 2.
func (r *Roller) RollDice(count, sides int) RollResult {
	if count < 1 {
		return RollResult{Expression: fmt.Sprintf("0d%d", sides)}
	}
	return r.Roll(Expression{Count: count, Sides: sides})
}

func (r *Roller) log(result RollResult) {
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
}
