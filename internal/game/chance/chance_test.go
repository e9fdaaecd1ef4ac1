package chance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/chance"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func TestRollForEffect_CertainAlwaysTrue(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64Range(1, 1<<40).Draw(rt, "seed")
		p := chance.NewProvider(dice.NewSeededSource(seed), nil)
		assert.True(rt, p.RollForEffect(1.0))
	})
}

func TestRollForEffect_ZeroNeverTrue(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64Range(1, 1<<40).Draw(rt, "seed")
		p := chance.NewProvider(dice.NewSeededSource(seed), nil)
		mult := rapid.Float64Range(0, 10).Draw(rt, "multiplier")
		assert.False(rt, p.RollFor(0, chance.Passive{Multiplier: mult, Rerolls: 3}))
	})
}

func TestRollForEffect_CertainConsumesNoRandomness(t *testing.T) {
	src := testutil.NewScriptedSource(0)
	p := chance.NewProvider(src, nil)
	p.RollForEffect(1)
	p.RollForEffect(0)
	assert.Equal(t, 0, src.Calls())
}

func TestRollForEffect_EmpiricalFrequency(t *testing.T) {
	p := chance.NewProvider(dice.NewSeededSource(7), nil)
	const trials = 20000
	hits := 0
	for i := 0; i < trials; i++ {
		if p.RollForEffect(0.3) {
			hits++
		}
	}
	assert.InDelta(t, 0.3, float64(hits)/trials, 0.02)
}

func TestRollFor_RerollRaisesFrequency(t *testing.T) {
	p := chance.NewProvider(dice.NewSeededSource(11), nil)
	const trials = 20000
	hits := 0
	for i := 0; i < trials; i++ {
		if p.RollFor(0.3, chance.Passive{Rerolls: 1}) {
			hits++
		}
	}
	// 1 - 0.7^2
	assert.InDelta(t, 0.51, float64(hits)/trials, 0.02)
}

func TestPassive_Adjust(t *testing.T) {
	assert.InDelta(t, 0.45, chance.Passive{Multiplier: 1.5}.Adjust(0.3), 1e-9)
	assert.InDelta(t, 1.0, chance.Passive{Multiplier: 5}.Adjust(0.3), 1e-9)
	assert.InDelta(t, 0.1, chance.Passive{Bonus: 0.1}.Adjust(0), 1e-9)
	assert.True(t, chance.Passive{}.IsZero())
}

func TestPick_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64Range(1, 1<<40).Draw(rt, "seed")
		p := chance.NewProvider(dice.NewSeededSource(seed), nil)
		v := p.Pick(1.25, 1.5)
		assert.GreaterOrEqual(rt, v, 1.25)
		assert.LessOrEqual(rt, v, 1.5+1e-9)
	})
}
