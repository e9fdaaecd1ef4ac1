// Package chance provides the single effect-probability provider through which
// every percentage trigger of the combat engine is evaluated.
package chance

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// resolution is the number of buckets a probability is quantised into.
const resolution = 10000

// Passive carries an actor's probability passives into a roll.
//
// The zero value applies no amplification and no rerolls.
type Passive struct {
	// Multiplier scales the base chance; 0 is treated as 1.
	Multiplier float64
	// Bonus is added after scaling.
	Bonus float64
	// Rerolls is the number of extra attempts granted after a failure.
	Rerolls int
}

// IsZero reports whether p changes nothing.
func (p Passive) IsZero() bool {
	return (p.Multiplier == 0 || p.Multiplier == 1) && p.Bonus == 0 && p.Rerolls == 0
}

// Adjust returns the effective chance for base under p, clamped to [0, 1].
// A base of zero is never amplified by Multiplier; only Bonus can lift it.
func (p Passive) Adjust(base float64) float64 {
	mult := p.Multiplier
	if mult == 0 {
		mult = 1
	}
	c := base*mult + p.Bonus
	return Clamp(c, 0, 1)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Provider evaluates probability checks against a dice Source.
//
// Invariant: RollForEffect(1) is always true; RollForEffect(0) is always false.
type Provider struct {
	src    dice.Source
	logger *zap.Logger
}

// NewProvider returns a Provider drawing from src. A nil logger is replaced by a no-op logger.
//
// Precondition: src must be non-nil.
func NewProvider(src dice.Source, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{src: src, logger: logger}
}

// RollForEffect reports whether an effect with the given base chance triggers.
func (p *Provider) RollForEffect(base float64) bool {
	return p.RollFor(base, Passive{})
}

// RollFor reports whether an effect with base chance triggers for an actor with passive.
// Certain chances (>= 1) never consume randomness.
func (p *Provider) RollFor(base float64, passive Passive) bool {
	c := passive.Adjust(base)
	if c >= 1 {
		return true
	}
	if c <= 0 {
		return false
	}
	threshold := int(c * resolution)
	attempts := 1 + passive.Rerolls
	for i := 0; i < attempts; i++ {
		if p.src.Intn(resolution) < threshold {
			p.logger.Debug("effect roll",
				zap.Float64("base", base),
				zap.Float64("effective", c),
				zap.Int("attempt", i+1),
				zap.Bool("success", true),
			)
			return true
		}
	}
	p.logger.Debug("effect roll",
		zap.Float64("base", base),
		zap.Float64("effective", c),
		zap.Int("attempts", attempts),
		zap.Bool("success", false),
	)
	return false
}

// Pick returns a uniformly distributed value in [lo, hi] with two decimal places.
// It backs random-range multipliers that are not probability checks.
func (p *Provider) Pick(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	steps := int((hi-lo)*100 + 0.5)
	return lo + float64(p.src.Intn(steps+1))/100
}
