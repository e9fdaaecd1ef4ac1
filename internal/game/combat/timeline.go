package combat

import (
	"context"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// StepKind classifies a pacing step.
type StepKind int

const (
	StepMove StepKind = iota
	StepHit
	StepPhase
)

// String returns a human-readable step label.
func (k StepKind) String() string {
	switch k {
	case StepMove:
		return "move"
	case StepHit:
		return "hit"
	case StepPhase:
		return "phase"
	default:
		return "unknown"
	}
}

// Delays configures how long presentation should pause after each step kind.
type Delays struct {
	MoveStep time.Duration
	Hit      time.Duration
	Phase    time.Duration
}

// Step is one timed beat of resolution for presentation to play back.
type Step struct {
	Kind    StepKind
	ActorID string
	Pos     grid.Pos
	Note    string
	Delay   time.Duration
}

// Timeline accumulates pacing steps. The simulation never sleeps; callers
// drain the steps and replay them at their own pace.
type Timeline struct {
	steps  []Step
	delays Delays
	fast   bool
}

// NewTimeline returns a Timeline. In fast mode every delay is zero.
func NewTimeline(delays Delays, fast bool) *Timeline {
	return &Timeline{delays: delays, fast: fast}
}

// Append records a step with the delay configured for its kind.
func (t *Timeline) Append(kind StepKind, actorID string, pos grid.Pos, note string) {
	var d time.Duration
	if !t.fast {
		switch kind {
		case StepMove:
			d = t.delays.MoveStep
		case StepHit:
			d = t.delays.Hit
		case StepPhase:
			d = t.delays.Phase
		}
	}
	t.steps = append(t.steps, Step{Kind: kind, ActorID: actorID, Pos: pos, Note: note, Delay: d})
}

// Len returns the number of undrained steps.
func (t *Timeline) Len() int { return len(t.steps) }

// DrainSteps returns and clears every recorded step.
func (t *Timeline) DrainSteps() []Step {
	out := t.steps
	t.steps = nil
	return out
}

// Playback hands each step to fn and waits its delay, stopping early when ctx is done.
//
// Postcondition: returns ctx.Err() if cancelled before all steps were played.
func Playback(ctx context.Context, steps []Step, fn func(Step)) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(s)
		if s.Delay <= 0 {
			continue
		}
		timer := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
