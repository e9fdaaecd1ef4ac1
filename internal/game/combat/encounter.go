package combat

import (
	"context"
	"fmt"
	"sort"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/chance"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Outcome is the lifecycle state of an encounter.
type Outcome string

const (
	OutcomeActive  Outcome = "active"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeFled    Outcome = "fled"
)

const (
	eventWin    = "win"
	eventLose   = "lose"
	eventEscape = "escape"
)

// Defaults applied by NewEncounter to zero Options fields.
const (
	DefaultBaseMovement   = 3
	DefaultCritMultiplier = 1.5
)

// Options tunes one encounter.
type Options struct {
	BaseMovement   int
	CritMultiplier float64
	FastMode       bool
	Delays         Delays
	// Inescapable encounters reject flee.
	Inescapable bool
}

// Deps are the collaborators of an encounter. Nil fields get working defaults.
type Deps struct {
	Logger   *zap.Logger
	Dice     *dice.Roller
	Chance   *chance.Provider
	Statuses *status.Registry
	Rules    *ruleset.Registry
	Items    *inventory.Registry
	NPCs     *npc.Registry
	Log      LogSink
	Renderer Renderer
	Rewards  RewardSink
}

// Encounter is the context object owning all state of one combat session.
// It is not safe for concurrent use; the scheduler serialises every mutation.
type Encounter struct {
	grid       *grid.Grid
	opts       Options
	deps       Deps
	logger     *zap.Logger
	combatants []*Combatant
	lifecycle  *fsm.FSM
	timeline   *Timeline
	calc       *DamageCalculator
	round      int
	busy       bool
	pending    *pendingAbility
	rewards    []Reward
	// endChecks counts every call into CheckEnd.
	endChecks int
}

// NewEncounter creates an active encounter on g.
//
// Precondition: g must be non-nil.
// Postcondition: Outcome() == OutcomeActive and Round() == 1.
func NewEncounter(g *grid.Grid, opts Options, deps Deps) *Encounter {
	if opts.BaseMovement <= 0 {
		opts.BaseMovement = DefaultBaseMovement
	}
	if opts.CritMultiplier <= 0 {
		opts.CritMultiplier = DefaultCritMultiplier
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Dice == nil {
		deps.Dice = dice.NewLoggedRoller(dice.NewCryptoSource(), deps.Logger)
	}
	if deps.Chance == nil {
		deps.Chance = chance.NewProvider(deps.Dice, deps.Logger)
	}
	if deps.Statuses == nil {
		deps.Statuses = status.DefaultRegistry()
	}
	if deps.Rules == nil {
		deps.Rules = ruleset.NewRegistry()
	}
	if deps.Items == nil {
		deps.Items = inventory.NewRegistry()
	}
	if deps.NPCs == nil {
		deps.NPCs, _ = npc.NewRegistry(nil)
	}
	if deps.Log == nil {
		deps.Log = NewZapLogSink(deps.Logger)
	}
	if deps.Renderer == nil {
		deps.Renderer = nopRenderer{}
	}
	if deps.Rewards == nil {
		deps.Rewards = nopRewards{}
	}
	e := &Encounter{
		grid:     g,
		opts:     opts,
		deps:     deps,
		logger:   deps.Logger,
		timeline: NewTimeline(opts.Delays, opts.FastMode),
		calc:     NewDamageCalculator(DefaultModifiers()...),
		round:    1,
	}
	e.lifecycle = fsm.NewFSM(
		string(OutcomeActive),
		fsm.Events{
			{Name: eventWin, Src: []string{string(OutcomeActive)}, Dst: string(OutcomeVictory)},
			{Name: eventLose, Src: []string{string(OutcomeActive)}, Dst: string(OutcomeDefeat)},
			{Name: eventEscape, Src: []string{string(OutcomeActive)}, Dst: string(OutcomeFled)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				e.logger.Info("encounter ended",
					zap.String("from", ev.Src),
					zap.String("outcome", ev.Dst),
					zap.Int("round", e.round),
				)
			},
		},
	)
	return e
}

// Add places c in the encounter.
//
// Precondition: c.ID is unique within the encounter.
// Postcondition: on success c is in Combatants(); a placed c stands on an active,
// object-free cell that no other living combatant occupies.
func (e *Encounter) Add(c *Combatant) error {
	c.ensure()
	if _, dup := e.Combatant(c.ID); dup {
		return fmt.Errorf("combatant %q already in encounter", c.ID)
	}
	if c.Pos.IsPlaced() {
		if !e.grid.CanStand(e.MoverFor(c), c.Pos) {
			return fmt.Errorf("combatant %q cannot stand on %s", c.ID, c.Pos)
		}
	}
	e.combatants = append(e.combatants, c)
	return nil
}

// Calculator returns the damage pipeline.
func (e *Encounter) Calculator() *DamageCalculator { return e.calc }

// Grid returns the battlefield.
func (e *Encounter) Grid() *grid.Grid { return e.grid }

// Options returns the encounter options after defaults were applied.
func (e *Encounter) Options() Options { return e.opts }

// Rules returns the spell, skill, class and race registry.
func (e *Encounter) Rules() *ruleset.Registry { return e.deps.Rules }

// Items returns the equipment and consumable registry.
func (e *Encounter) Items() *inventory.Registry { return e.deps.Items }

// Statuses returns the status effect registry.
func (e *Encounter) Statuses() *status.Registry { return e.deps.Statuses }

// Chance returns the effect-probability provider.
func (e *Encounter) Chance() *chance.Provider { return e.deps.Chance }

// Dice returns the logged dice roller.
func (e *Encounter) Dice() *dice.Roller { return e.deps.Dice }

// Timeline returns the pacing step list.
func (e *Encounter) Timeline() *Timeline { return e.timeline }

// DrainSteps returns and clears the pacing steps recorded so far.
func (e *Encounter) DrainSteps() []Step { return e.timeline.DrainSteps() }

// Round returns the current round number, starting at 1.
func (e *Encounter) Round() int { return e.round }

// Outcome returns the lifecycle state.
func (e *Encounter) Outcome() Outcome { return Outcome(e.lifecycle.Current()) }

// Ended reports whether the encounter has left the active state.
func (e *Encounter) Ended() bool { return e.Outcome() != OutcomeActive }

// Rewards returns every reward handed off so far.
func (e *Encounter) Rewards() []Reward { return append([]Reward(nil), e.rewards...) }

// EndChecks returns how many times the end resolver has been consulted.
func (e *Encounter) EndChecks() int { return e.endChecks }

// Combatants returns every combatant still in the encounter, in insertion order.
func (e *Encounter) Combatants() []*Combatant {
	return append([]*Combatant(nil), e.combatants...)
}

// Combatant returns the combatant with id.
func (e *Encounter) Combatant(id string) (*Combatant, bool) {
	for _, c := range e.combatants {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Player returns the player combatant, or nil.
func (e *Encounter) Player() *Combatant {
	return e.firstOf(RolePlayer)
}

// Ally returns the ally combatant, or nil.
func (e *Encounter) Ally() *Combatant {
	return e.firstOf(RoleAlly)
}

func (e *Encounter) firstOf(r Role) *Combatant {
	for _, c := range e.combatants {
		if c.Role == r {
			return c
		}
	}
	return nil
}

// Enemies returns every enemy still in the encounter, in list order.
func (e *Encounter) Enemies() []*Combatant {
	var out []*Combatant
	for _, c := range e.combatants {
		if c.Role == RoleEnemy {
			out = append(out, c)
		}
	}
	return out
}

// Drones returns the drones owned by ownerID.
func (e *Encounter) Drones(ownerID string) []*Combatant {
	var out []*Combatant
	for _, c := range e.combatants {
		if c.Role == RoleDrone && c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out
}

// Hostiles returns the living, placed combatants hostile to c.
func (e *Encounter) Hostiles(c *Combatant) []*Combatant {
	var out []*Combatant
	for _, o := range e.combatants {
		if o.IsAlive() && o.Pos.IsPlaced() && c.Hostile(o) {
			out = append(out, o)
		}
	}
	return out
}

// Friendlies returns the living, placed combatants on c's side, excluding c.
func (e *Encounter) Friendlies(c *Combatant) []*Combatant {
	var out []*Combatant
	for _, o := range e.combatants {
		if o != c && o.IsAlive() && o.Pos.IsPlaced() && !c.Hostile(o) {
			out = append(out, o)
		}
	}
	return out
}

// Nearest returns the candidate closest to c by taxicab distance; ties keep list order.
func Nearest(c *Combatant, candidates []*Combatant) *Combatant {
	var best *Combatant
	bestDist := 0
	for _, o := range candidates {
		d := c.Pos.Distance(o.Pos)
		if best == nil || d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}

// Occupant returns the living combatant standing on p, or nil.
func (e *Encounter) Occupant(p grid.Pos) *Combatant {
	for _, c := range e.combatants {
		if c.HP > 0 && !c.Flags.Fled && c.Pos == p {
			return c
		}
	}
	return nil
}

// MoverFor returns the traversal rules for c: other living combatants block it.
func (e *Encounter) MoverFor(c *Combatant) grid.Mover {
	return grid.Mover{
		Flying: c.Flying(),
		Occupied: func(p grid.Pos) bool {
			o := e.Occupant(p)
			return o != nil && o != c
		},
	}
}

// MovementBudget returns how many cells c may move this turn.
//
// Postcondition: result >= 1.
func (e *Encounter) MovementBudget(c *Combatant) int {
	budget := e.opts.BaseMovement + c.Movement + c.Statuses.MovementDelta()
	if c.Race != nil {
		budget += c.Race.Movement
	}
	if budget < 1 {
		budget = 1
	}
	return budget
}

// WeaponRange returns the attack range of c's weapon including passives.
func (e *Encounter) WeaponRange(c *Combatant) int {
	r := c.Weapon().Range
	if r < 1 {
		r = 1
	}
	if c.Passives.Has(ruleset.PassiveLongReach) {
		r++
	}
	return r
}

// SpellCost returns the final MP cost for c to cast spell at tier.
//
// Postcondition: result >= 1.
func (e *Encounter) SpellCost(c *Combatant, spell *ruleset.SpellDef, tier int) int {
	cost := spell.MPCost
	if tier > 1 {
		cost += 2 * (tier - 1)
	}
	if c.Equipment.Catalyst != nil {
		cost -= c.Equipment.Catalyst.MPReduction
	}
	if c.Passives.Has(ruleset.PassiveManaEfficiency) {
		cost -= 2
	}
	if cost < 1 {
		cost = 1
	}
	for id, on := range c.Flags.Toggles {
		if !on {
			continue
		}
		if sk, ok := e.deps.Rules.Skill(id); ok {
			cost += sk.Surcharge
		}
	}
	cost += int(c.Statuses.Magnitude(status.ManaBurn))
	return cost
}

func (e *Encounter) acquire() error {
	if e.Ended() {
		return reject(KindInvalidState, "encounter has ended")
	}
	if e.busy {
		return reject(KindInvalidState, "another action is resolving")
	}
	e.busy = true
	return nil
}

func (e *Encounter) release() { e.busy = false }

func (e *Encounter) logf(category, format string, args ...any) {
	e.deps.Log.Log(fmt.Sprintf(format, args...), category)
}

func (e *Encounter) render() { e.deps.Renderer.Render(e) }

func (e *Encounter) remove(c *Combatant) {
	for i, o := range e.combatants {
		if o == c {
			e.combatants = append(e.combatants[:i], e.combatants[i+1:]...)
			return
		}
	}
}

// CombatantSnapshot is plain data describing one combatant.
type CombatantSnapshot struct {
	ID       string
	Name     string
	Role     Role
	Pos      grid.Pos
	HP       int
	MaxHP    int
	MP       int
	MaxMP    int
	Statuses []status.ID
}

// Snapshot is plain data describing the encounter for callers that persist or display it.
type Snapshot struct {
	Round      int
	Outcome    Outcome
	Combatants []CombatantSnapshot
	Objects    []grid.Object
}

// Snapshot copies the current state into plain data.
func (e *Encounter) Snapshot() Snapshot {
	s := Snapshot{Round: e.round, Outcome: e.Outcome()}
	for _, c := range e.combatants {
		cs := CombatantSnapshot{
			ID: c.ID, Name: c.Name, Role: c.Role, Pos: c.Pos,
			HP: c.HP, MaxHP: c.MaxHP, MP: c.MP, MaxMP: c.MaxMP,
		}
		for _, eff := range c.Statuses.All() {
			cs.Statuses = append(cs.Statuses, eff.Def.ID)
		}
		s.Combatants = append(s.Combatants, cs)
	}
	for _, o := range e.grid.Objects() {
		s.Objects = append(s.Objects, *o)
	}
	sort.SliceStable(s.Objects, func(i, j int) bool { return s.Objects[i].ID < s.Objects[j].ID })
	return s
}
