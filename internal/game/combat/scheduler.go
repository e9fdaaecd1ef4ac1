package combat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Controller chooses intents for the combatants it drives.
type Controller interface {
	// Decide returns the intent for actor, or false when it has nothing to do.
	Decide(enc *Encounter, actor *Combatant) (Intent, bool)
}

// ControllerFunc adapts a function to Controller.
type ControllerFunc func(enc *Encounter, actor *Combatant) (Intent, bool)

// Decide implements Controller.
func (f ControllerFunc) Decide(enc *Encounter, actor *Combatant) (Intent, bool) { return f(enc, actor) }

// StepState reports what one scheduler step did.
type StepState int

const (
	StepActed StepState = iota
	StepSkipped
	StepAwaitingInput
	StepRoundEnd
	StepEnded
)

func (s StepState) String() string {
	switch s {
	case StepActed:
		return "acted"
	case StepSkipped:
		return "skipped"
	case StepAwaitingInput:
		return "awaiting_input"
	case StepRoundEnd:
		return "round_end"
	case StepEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ErrAwaitingInput is returned by Run when a combatant without a controller is up.
var ErrAwaitingInput = errors.New("awaiting player input")

// maxFreeActions bounds how many non-consuming intents a controller may issue in one turn.
const maxFreeActions = 3

// Scheduler sequences turns: player, player drones, ally, ally drones, then
// each enemy in list order, followed by round-end cleanup.
type Scheduler struct {
	enc    *Encounter
	byID   map[string]Controller
	byRole map[Role]Controller
	queue  []string
	idx    int
	logger *zap.Logger
}

// NewScheduler returns a scheduler for enc positioned at the first turn of the current round.
//
// Precondition: enc must be non-nil.
func NewScheduler(enc *Encounter) *Scheduler {
	s := &Scheduler{
		enc:    enc,
		byID:   make(map[string]Controller),
		byRole: make(map[Role]Controller),
		logger: enc.logger,
	}
	s.queue = s.order()
	return s
}

// Control assigns ctl to the combatant with id; it overrides any role controller.
func (s *Scheduler) Control(id string, ctl Controller) { s.byID[id] = ctl }

// ControlRole assigns ctl to every combatant with role r.
func (s *Scheduler) ControlRole(r Role, ctl Controller) { s.byRole[r] = ctl }

// Order returns the combatant IDs that will act this round, in order.
func (s *Scheduler) Order() []string { return append([]string(nil), s.queue...) }

func (s *Scheduler) order() []string {
	var ids []string
	add := func(c *Combatant) {
		if c != nil && c.IsAlive() {
			ids = append(ids, c.ID)
		}
	}
	player := s.enc.Player()
	add(player)
	if player != nil {
		for _, d := range s.enc.Drones(player.ID) {
			add(d)
		}
	}
	ally := s.enc.Ally()
	add(ally)
	if ally != nil {
		for _, d := range s.enc.Drones(ally.ID) {
			add(d)
		}
	}
	for _, en := range s.enc.Enemies() {
		add(en)
	}
	return ids
}

// Current returns the combatant whose turn it is, skipping any that can no
// longer act. It returns nil at round end.
func (s *Scheduler) Current() *Combatant {
	for s.idx < len(s.queue) {
		c, ok := s.enc.Combatant(s.queue[s.idx])
		if ok && c.IsAlive() && (c.Pos.IsPlaced() || c.Swallowed()) {
			return c
		}
		s.idx++
	}
	return nil
}

func (s *Scheduler) controller(c *Combatant) Controller {
	if ctl, ok := s.byID[c.ID]; ok {
		return ctl
	}
	return s.byRole[c.Role]
}

// Step advances the encounter by one turn, or closes the round.
func (s *Scheduler) Step() StepState {
	if s.enc.Ended() {
		return StepEnded
	}
	actor := s.Current()
	if actor == nil {
		s.endRound()
		return StepRoundEnd
	}
	if actor.Incapacitated() {
		s.enc.logf(CategoryStatus, "%s cannot move", actor.Name)
		s.finishTurn(actor)
		return StepSkipped
	}
	ctl := s.controller(actor)
	if ctl == nil {
		return StepAwaitingInput
	}
	for i := 0; ; i++ {
		in, ok := ctl.Decide(s.enc, actor)
		if !ok || i >= maxFreeActions {
			in = Wait()
		}
		if actor.Restrained() {
			in = Struggle()
		}
		consumed, err := s.enc.Execute(actor, in)
		if err != nil {
			s.logger.Debug("controller intent rejected, waiting",
				zap.String("actor", actor.ID),
				zap.Error(err),
			)
			consumed, _ = s.enc.Execute(actor, Wait())
		}
		if consumed || s.enc.Ended() {
			s.followUp(actor, in.FollowUp)
			break
		}
	}
	s.finishTurn(actor)
	if s.enc.Ended() {
		return StepEnded
	}
	return StepActed
}

func (s *Scheduler) followUp(actor *Combatant, next *Intent) {
	for ; next != nil && !s.enc.Ended() && actor.IsAlive(); next = next.FollowUp {
		if _, err := s.enc.Execute(actor, *next); err != nil {
			s.logger.Debug("follow-up rejected", zap.String("actor", actor.ID), zap.Error(err))
			return
		}
	}
}

// awaiting returns the combatant waiting on player input.
func (s *Scheduler) awaiting() (*Combatant, StepState, error) {
	if s.enc.Ended() {
		return nil, StepEnded, reject(KindInvalidState, "encounter has ended")
	}
	actor := s.Current()
	if actor == nil {
		return nil, StepRoundEnd, reject(KindInvalidState, "no combatant is waiting")
	}
	if s.controller(actor) != nil {
		return nil, StepAwaitingInput, reject(KindInvalidState, "%s is not player controlled", actor.Name)
	}
	return actor, StepAwaitingInput, nil
}

// settle closes the turn of actor when consumed is set.
func (s *Scheduler) settle(actor *Combatant, consumed bool) StepState {
	if !consumed && !s.enc.Ended() {
		return StepAwaitingInput
	}
	s.finishTurn(actor)
	if s.enc.Ended() {
		return StepEnded
	}
	return StepActed
}

// Submit resolves the intent of a combatant awaiting input. A rejected
// intent keeps the turn. A deferred skill submitted without a target is
// left pending for Confirm.
func (s *Scheduler) Submit(in Intent) (StepState, error) {
	actor, state, err := s.awaiting()
	if err != nil {
		return state, err
	}
	consumed, err := s.enc.Execute(actor, in)
	if err != nil {
		return StepAwaitingInput, err
	}
	return s.settle(actor, consumed), nil
}

// Begin readies skillID for the combatant awaiting input. Nothing is charged
// and the turn is kept.
func (s *Scheduler) Begin(skillID string) (StepState, error) {
	actor, state, err := s.awaiting()
	if err != nil {
		return state, err
	}
	if err := s.enc.Begin(actor, skillID); err != nil {
		return StepAwaitingInput, err
	}
	return StepAwaitingInput, nil
}

// Confirm aims the readied ability of the combatant awaiting input and
// resolves it. A consumed turn moves play on exactly as Submit does.
//
// Precondition: the awaiting combatant has an ability pending.
func (s *Scheduler) Confirm(target string, cell grid.Pos) (StepState, error) {
	actor, state, err := s.awaiting()
	if err != nil {
		return state, err
	}
	if id, _, ok := s.enc.Pending(); !ok || id != actor.ID {
		return StepAwaitingInput, reject(KindInvalidState, "%s has no ability readied", actor.Name)
	}
	consumed, err := s.enc.Confirm(target, cell)
	if err != nil {
		return StepAwaitingInput, err
	}
	return s.settle(actor, consumed), nil
}

// Cancel lowers the readied ability, if any. The turn is kept.
func (s *Scheduler) Cancel() StepState {
	s.enc.Cancel()
	if s.enc.Ended() {
		return StepEnded
	}
	return StepAwaitingInput
}

// Run steps until the encounter ends, input is needed or maxRounds rounds
// have closed. A maxRounds of 0 means no limit.
func (s *Scheduler) Run(ctx context.Context, maxRounds int) (Outcome, error) {
	start := s.enc.Round()
	for {
		if err := ctx.Err(); err != nil {
			return s.enc.Outcome(), err
		}
		switch s.Step() {
		case StepEnded:
			return s.enc.Outcome(), nil
		case StepAwaitingInput:
			return s.enc.Outcome(), ErrAwaitingInput
		case StepRoundEnd:
			if maxRounds > 0 && s.enc.Round()-start >= maxRounds {
				return s.enc.Outcome(), nil
			}
		}
	}
}

// finishTurn runs turn-end processing and either grants an extra turn or
// moves to the next combatant.
func (s *Scheduler) finishTurn(actor *Combatant) {
	s.enc.EndTurn(actor)
	if s.enc.Ended() {
		return
	}
	if actor.IsAlive() && s.extraTurn(actor) {
		s.enc.logf(CategoryCombat, "%s acts again", actor.Name)
		return
	}
	s.idx++
}

// extraTurn grants the player at most one extra turn per buff per round.
func (s *Scheduler) extraTurn(actor *Combatant) bool {
	if actor.Role != RolePlayer {
		return false
	}
	for _, eff := range actor.Statuses.All() {
		id := eff.Def.ID
		if actor.Flags.ExtraTurnUsed[id] {
			continue
		}
		switch {
		case eff.Def.ExtraTurn:
			actor.Flags.ExtraTurnUsed[id] = true
			return true
		case id == status.Tailwind:
			actor.Flags.ExtraTurnUsed[id] = true
			if s.enc.deps.Chance.RollFor(eff.Magnitude, actor.ChancePassive()) {
				return true
			}
		}
	}
	return false
}

func (s *Scheduler) endRound() {
	for _, c := range s.enc.combatants {
		clear(c.Flags.ExtraTurnUsed)
		for id, cd := range c.Cooldowns {
			if cd <= 1 {
				delete(c.Cooldowns, id)
			} else {
				c.Cooldowns[id] = cd - 1
			}
		}
	}
	s.enc.round++
	s.enc.timeline.Append(StepPhase, "", grid.Unplaced, "round end")
	s.enc.logf(CategorySystem, "round %d begins", s.enc.round)
	s.queue = s.order()
	s.idx = 0
}
