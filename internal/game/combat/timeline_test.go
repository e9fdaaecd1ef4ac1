package combat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

func TestTimeline_FastModeZeroesDelays(t *testing.T) {
	delays := combat.Delays{MoveStep: time.Second, Hit: time.Second, Phase: time.Second}
	slow := combat.NewTimeline(delays, false)
	fast := combat.NewTimeline(delays, true)
	for _, tl := range []*combat.Timeline{slow, fast} {
		tl.Append(combat.StepMove, "a", grid.Pos{X: 1}, "move")
		tl.Append(combat.StepHit, "a", grid.Pos{X: 2}, "hit")
	}

	for _, s := range fast.DrainSteps() {
		assert.Zero(t, s.Delay)
	}
	steps := slow.DrainSteps()
	require.Len(t, steps, 2)
	assert.Equal(t, time.Second, steps[0].Delay)
	assert.Equal(t, 0, slow.Len())
}

func TestPlayback_StopsOnCancel(t *testing.T) {
	steps := []combat.Step{
		{Kind: combat.StepMove, Delay: time.Hour},
		{Kind: combat.StepHit},
	}
	ctx, cancel := context.WithCancel(context.Background())
	played := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := combat.Playback(ctx, steps, func(combat.Step) { played++ })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, played)
}

func TestPlayback_FastStepsAllPlayed(t *testing.T) {
	steps := []combat.Step{{Kind: combat.StepMove}, {Kind: combat.StepHit}, {Kind: combat.StepPhase}}
	var kinds []combat.StepKind
	require.NoError(t, combat.Playback(context.Background(), steps, func(s combat.Step) { kinds = append(kinds, s.Kind) }))
	assert.Equal(t, []combat.StepKind{combat.StepMove, combat.StepHit, combat.StepPhase}, kinds)
}
