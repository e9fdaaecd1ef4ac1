package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/chance"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/command"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/scenario"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/render"
)

// errQuit reports that the player abandoned the encounter.
var errQuit = errors.New("player quit")

// session holds everything one simulation run needs.
type session struct {
	cfg      config.Config
	scenario string
	autoplay bool
	color    bool
	in       io.Reader
	out      io.Writer
	logger   *zap.Logger
}

// result summarises a finished run.
type result struct {
	outcome combat.Outcome
	rounds  int
	rewards []combat.Reward
}

// run loads content and the scenario and plays the encounter until it ends,
// the round limit is reached, the player quits or ctx is cancelled.
//
// Postcondition: a quit or exhausted input is not an error; the returned
// outcome is then OutcomeActive.
func run(ctx context.Context, s session) (result, error) {
	logger := s.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := dice.NewSource(s.cfg.Combat.Seed)
	roller := dice.NewLoggedRoller(src, observability.ForComponent(logger, observability.ComponentDice))

	lib, err := loadLibrary(s.cfg.Content, roller, s.cfg.Combat.InstructionLimit, observability.ForComponent(logger, observability.ComponentContent))
	if err != nil {
		return result{}, err
	}
	defer lib.Close()

	scn, err := scenario.LoadFromFile(s.scenario)
	if err != nil {
		return result{}, err
	}

	combatLogger := observability.ForComponent(logger, observability.ComponentCombat)
	rewards := &combat.RecordingSink{}
	enc, err := scn.Build(combat.Options{
		BaseMovement:   s.cfg.Combat.BaseMovement,
		CritMultiplier: s.cfg.Combat.CritMultiplier,
		FastMode:       s.cfg.Combat.FastMode,
		Delays: combat.Delays{
			MoveStep: s.cfg.Pacing.MoveStep,
			Hit:      s.cfg.Pacing.Hit,
			Phase:    s.cfg.Pacing.Phase,
		},
	}, combat.Deps{
		Logger:   combatLogger,
		Dice:     roller,
		Chance:   chance.NewProvider(roller, combatLogger),
		Statuses: lib.statuses,
		Rules:    lib.rules,
		Items:    lib.items,
		NPCs:     lib.npcs,
		Log:      combat.NewZapLogSink(combatLogger),
		Renderer: render.NewLogRenderer(combatLogger, s.color),
		Rewards:  rewards,
	})
	if err != nil {
		return result{}, err
	}
	lib.scripts.Bind(ai.EncounterQuery{Enc: enc})
	logger.Info("scenario ready",
		zap.String("id", scn.ID),
		zap.String("name", scn.Name),
		zap.Int("enemies", len(enc.Enemies())),
	)

	aiLogger := observability.ForComponent(logger, observability.ComponentAI)
	sched := combat.NewScheduler(enc)
	sched.ControlRole(combat.RoleEnemy, ai.NewEnemyController(lib.planners, aiLogger))
	sched.ControlRole(combat.RoleAlly, ai.NewAllyController(aiLogger))
	sched.ControlRole(combat.RoleDrone, ai.DroneController{})
	if p := enc.Player(); s.autoplay && p != nil {
		sched.Control(p.ID, ai.NewAllyController(aiLogger))
	}

	con := newConsole(s.in, s.out, s.color)
	res := result{}
	start := enc.Round()
	for !enc.Ended() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		state := sched.Step()
		if err := combat.Playback(ctx, enc.DrainSteps(), func(st combat.Step) {
			combatLogger.Debug("step",
				zap.Stringer("kind", st.Kind),
				zap.String("actor", st.ActorID),
				zap.Stringer("pos", st.Pos),
				zap.String("note", st.Note),
			)
		}); err != nil {
			return res, err
		}
		switch state {
		case combat.StepAwaitingInput:
			if err := con.turn(ctx, sched, enc); err != nil {
				if errors.Is(err, errQuit) {
					logger.Info("player left the encounter")
					return finish(res, enc, rewards, start, logger), nil
				}
				return res, err
			}
		case combat.StepRoundEnd:
			if limit := s.cfg.Combat.MaxRounds; limit > 0 && enc.Round()-start >= limit {
				logger.Warn("round limit reached", zap.Int("limit", limit))
				return finish(res, enc, rewards, start, logger), nil
			}
		}
	}
	return finish(res, enc, rewards, start, logger), nil
}

func finish(res result, enc *combat.Encounter, rewards *combat.RecordingSink, start int, logger *zap.Logger) result {
	res.outcome = enc.Outcome()
	res.rounds = enc.Round() - start + 1
	res.rewards = rewards.Rewards
	for _, r := range res.rewards {
		items := make([]string, 0, len(r.Items))
		for _, it := range r.Items {
			items = append(items, fmt.Sprintf("%s x%d", it.ItemDefID, it.Quantity))
		}
		logger.Info("reward",
			zap.String("enemy", r.EnemyName),
			zap.Int("gold", r.Gold),
			zap.Int("xp", r.XP),
			zap.Strings("items", items),
		)
	}
	logger.Info("encounter outcome",
		zap.String("outcome", string(res.outcome)),
		zap.Int("rounds", res.rounds),
	)
	return res
}

// console reads player commands from a line-oriented stream.
type console struct {
	scanner  *bufio.Scanner
	out      io.Writer
	color    bool
	commands *command.Registry
}

func newConsole(in io.Reader, out io.Writer, color bool) *console {
	if out == nil {
		out = io.Discard
	}
	c := &console{out: out, color: color, commands: command.DefaultRegistry()}
	if in != nil {
		c.scanner = bufio.NewScanner(in)
	}
	return c
}

// turn prompts until the player's intent is accepted.
//
// Postcondition: returns errQuit on a quit command or exhausted input.
func (c *console) turn(ctx context.Context, sched *combat.Scheduler, enc *combat.Encounter) error {
	actor := sched.Current()
	if actor == nil {
		return nil
	}
	fmt.Fprint(c.out, render.Grid(enc, c.color))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s> ", actor.Name)
		if c.scanner == nil || !c.scanner.Scan() {
			return errQuit
		}
		res, err := c.commands.Interpret(c.scanner.Text(), enc, actor)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		var state combat.StepState
		switch {
		case res.Quit:
			return errQuit
		case res.Cancel:
			state = sched.Cancel()
		case res.Aim != nil:
			state, err = sched.Confirm(res.Aim.Target, res.Aim.Cell)
		case res.Intent != nil:
			state, err = sched.Submit(*res.Intent)
		default:
			fmt.Fprint(c.out, res.Text)
			continue
		}
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		if _, skill, ok := enc.Pending(); ok && state == combat.StepAwaitingInput {
			fmt.Fprintf(c.out, "%s is readied; target it or cancel\n", skill)
			continue
		}
		if state == combat.StepAwaitingInput {
			// A free action keeps the turn.
			fmt.Fprint(c.out, render.Grid(enc, c.color))
			continue
		}
		return nil
	}
}
