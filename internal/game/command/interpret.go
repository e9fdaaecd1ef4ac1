package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// ErrUnknownCommand is returned for input no registered command matches.
var ErrUnknownCommand = errors.New("unknown command")

// Result is the outcome of interpreting one input line. Exactly one of
// Intent, Aim, Cancel, Text or Quit is meaningful.
type Result struct {
	// Intent is non-nil when the line maps to an action for the encounter.
	Intent *combat.Intent
	// Aim is non-nil when the line confirms the readied skill.
	Aim *Aim
	// Cancel lowers the readied skill.
	Cancel bool
	// Text is a local reply (help, status) that does not touch the encounter.
	Text string
	Quit bool
}

// Aim is the target chosen for a readied skill.
type Aim struct {
	Target string
	Cell   grid.Pos
}

var stepDirections = map[string]grid.Pos{
	"north": grid.North,
	"south": grid.South,
	"east":  grid.East,
	"west":  grid.West,
}

// Interpret parses line and resolves it against actor in enc.
//
// Precondition: enc and actor are non-nil.
// Postcondition: a nil error yields a Result; malformed input returns an error
// and leaves the encounter untouched.
func (r *Registry) Interpret(line string, enc *combat.Encounter, actor *combat.Combatant) (Result, error) {
	p := Parse(line)
	if p.Command == "" {
		return Result{}, errors.New("empty command")
	}
	cmd, ok := r.Resolve(p.Command)
	if !ok {
		return Result{}, fmt.Errorf("%w %q; type help", ErrUnknownCommand, p.Command)
	}

	var in combat.Intent
	switch cmd.Handler {
	case HandlerHelp:
		return Result{Text: r.HelpText()}, nil
	case HandlerQuit:
		return Result{Quit: true}, nil
	case HandlerStatus:
		return Result{Text: Status(enc)}, nil
	case HandlerWait:
		in = combat.Wait()
	case HandlerFlee:
		in = combat.Flee()
	case HandlerStruggle:
		in = combat.Struggle()
	case HandlerMove:
		cell, ok := p.Cell(0)
		if !ok {
			return Result{}, usage(cmd)
		}
		in = combat.Move(cell)
	case HandlerStep:
		n, err := p.Count(0, 1)
		if err != nil {
			return Result{}, err
		}
		d := stepDirections[cmd.Name]
		in = combat.Move(grid.Pos{X: actor.Pos.X + d.X*n, Y: actor.Pos.Y + d.Y*n})
	case HandlerAttack:
		if p.Arg(0) == "" {
			return Result{}, usage(cmd)
		}
		in = combat.Attack(p.Arg(0))
	case HandlerCast:
		if p.Arg(0) == "" {
			return Result{}, usage(cmd)
		}
		target, cell := p.TargetOrCell(1)
		if cell.IsPlaced() {
			in = combat.CastAt(p.Arg(0), cell)
		} else {
			in = combat.Cast(p.Arg(0), target)
		}
	case HandlerUse:
		if p.Arg(0) == "" {
			return Result{}, usage(cmd)
		}
		target, cell := p.TargetOrCell(1)
		in = combat.UseItem(p.Arg(0), target)
		in.Cell = cell
	case HandlerSkill:
		if p.Arg(0) == "" {
			return Result{}, usage(cmd)
		}
		target, cell := p.TargetOrCell(1)
		in = combat.UseSkill(p.Arg(0), target, cell)
	case HandlerTarget:
		target, cell := p.TargetOrCell(0)
		if target == "" && !cell.IsPlaced() {
			return Result{}, usage(cmd)
		}
		return Result{Aim: &Aim{Target: target, Cell: cell}}, nil
	case HandlerCancel:
		return Result{Cancel: true}, nil
	case HandlerSignature:
		target, cell := p.TargetOrCell(0)
		in = combat.Signature(target, cell)
	default:
		return Result{}, fmt.Errorf("command %q has no handler", cmd.Name)
	}
	return Result{Intent: &in}, nil
}

func usage(cmd *Command) error {
	return fmt.Errorf("usage: %s", cmd.Usage)
}

// Status renders one line per combatant still in the encounter, ordered by ID.
func Status(enc *combat.Encounter) string {
	snap := enc.Snapshot()
	sort.Slice(snap.Combatants, func(i, j int) bool { return snap.Combatants[i].ID < snap.Combatants[j].ID })
	var b strings.Builder
	fmt.Fprintf(&b, "round %d\n", snap.Round)
	for _, c := range snap.Combatants {
		fmt.Fprintf(&b, "  %-12s %-6s HP %d/%d MP %d/%d at %s", c.ID, c.Role, c.HP, c.MaxHP, c.MP, c.MaxMP, c.Pos)
		if len(c.Statuses) > 0 {
			ids := make([]string, len(c.Statuses))
			for i, s := range c.Statuses {
				ids[i] = string(s)
			}
			sort.Strings(ids)
			fmt.Fprintf(&b, " [%s]", strings.Join(ids, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
