package combat

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Execute validates and resolves one intent for actor under the reentrancy
// lock. It reports whether the actor's turn was consumed.
//
// Precondition: actor belongs to the encounter.
// Postcondition: a non-nil error is an *ActionError, the turn is not consumed
// and no charge was made; on success the end resolver has been consulted once.
// Any earlier pending ability is cancelled. A deferred skill that is not
// confirmed by in is left pending.
func (e *Encounter) Execute(actor *Combatant, in Intent) (bool, error) {
	if err := e.acquire(); err != nil {
		return false, err
	}
	defer e.release()
	e.pending = nil

	consumed, err := e.resolve(actor, in)
	if err != nil {
		e.logger.Debug("intent rejected",
			zap.String("actor", actor.ID),
			zap.String("intent", in.Kind.String()),
			zap.Error(err),
		)
		e.logf(CategorySystem, "%s cannot %s: %v", actor.Name, in.Kind, err)
		return false, err
	}
	e.CheckEnd()
	e.render()
	return consumed, nil
}

func (e *Encounter) resolve(actor *Combatant, in Intent) (bool, error) {
	if !actor.IsAlive() {
		return false, reject(KindInvalidState, "%s cannot act", actor.Name)
	}
	if actor.Restrained() && in.Kind != IntentStruggle {
		return false, reject(KindInvalidState, "%s is restrained and can only struggle", actor.Name)
	}
	switch in.Kind {
	case IntentWait:
		e.logf(CategoryCombat, "%s waits", actor.Name)
		return true, nil
	case IntentMove:
		return e.move(actor, in.Cell, 0)
	case IntentAttack:
		return e.attack(actor, in.Target)
	case IntentCast:
		return e.cast(actor, in)
	case IntentItem:
		return e.useItem(actor, in)
	case IntentSkill:
		return e.useSkill(actor, in.Ref, in)
	case IntentSignature:
		return e.signature(actor, in)
	case IntentFlee:
		return e.flee(actor)
	case IntentStruggle:
		return e.struggle(actor)
	case IntentSwallow:
		return e.swallow(actor, in.Target)
	default:
		return false, reject(KindConfigurationGap, "unknown intent %d", in.Kind)
	}
}

// ValidateMove reports whether actor may move to cell with extra budget.
// It returns the path on success.
func (e *Encounter) ValidateMove(actor *Combatant, cell grid.Pos, extra int) ([]grid.Pos, error) {
	if !actor.Pos.IsPlaced() {
		return nil, reject(KindIllegalPosition, "%s is not on the grid", actor.Name)
	}
	if cell == actor.Pos {
		return nil, reject(KindIllegalPosition, "%s is already at %s", actor.Name, cell)
	}
	path, ok := e.grid.FindPath(e.MoverFor(actor), actor.Pos, cell)
	if !ok {
		return nil, reject(KindIllegalPosition, "no path to %s", cell)
	}
	if budget := e.MovementBudget(actor) + extra; len(path)-1 > budget {
		return nil, reject(KindIllegalPosition, "%s is %d steps away, budget %d", cell, len(path)-1, budget)
	}
	return path, nil
}

func (e *Encounter) move(actor *Combatant, cell grid.Pos, extra int) (bool, error) {
	path, err := e.ValidateMove(actor, cell, extra)
	if err != nil {
		return false, err
	}
	for _, p := range path[1:] {
		actor.Pos = p
		e.timeline.Append(StepMove, actor.ID, p, "move")
	}
	actor.Scratch.TilesMoved = len(path) - 1
	e.logf(CategoryMovement, "%s moves to %s", actor.Name, cell)
	return true, nil
}

// hostileTarget resolves id to a living, placed hostile of actor.
func (e *Encounter) hostileTarget(actor *Combatant, id string) (*Combatant, error) {
	t, ok := e.Combatant(id)
	if !ok {
		return nil, reject(KindInvalidTarget, "no combatant %q", id)
	}
	if !t.IsAlive() || !t.Pos.IsPlaced() {
		return nil, reject(KindInvalidTarget, "%s cannot be targeted", t.Name)
	}
	if !actor.Hostile(t) {
		return nil, reject(KindInvalidTarget, "%s is not hostile", t.Name)
	}
	return t, nil
}

// friendlyTarget resolves id to actor itself (empty id) or a living friendly.
func (e *Encounter) friendlyTarget(actor *Combatant, id string) (*Combatant, error) {
	if id == "" || id == actor.ID {
		return actor, nil
	}
	t, ok := e.Combatant(id)
	if !ok {
		return nil, reject(KindInvalidTarget, "no combatant %q", id)
	}
	if !t.IsAlive() || !t.Pos.IsPlaced() || actor.Hostile(t) {
		return nil, reject(KindInvalidTarget, "%s is not a friendly target", t.Name)
	}
	return t, nil
}

func (e *Encounter) attackTarget(actor *Combatant, id string) (*Combatant, error) {
	t, err := e.hostileTarget(actor, id)
	if err != nil {
		return nil, err
	}
	if d, r := actor.Pos.Distance(t.Pos), e.WeaponRange(actor); d > r {
		return nil, reject(KindInvalidTarget, "%s is %d away, range %d", t.Name, d, r)
	}
	return t, nil
}

func (e *Encounter) attack(actor *Combatant, id string) (bool, error) {
	t, err := e.attackTarget(actor, id)
	if err != nil {
		return false, err
	}
	e.strike(actor, t, 0)
	return true, nil
}

// strike performs a full weapon attack: first hit, optional second strike and
// the target shield's counter.
func (e *Encounter) strike(actor, t *Combatant, knockback int) {
	w := actor.Weapon()
	hit := Hit{
		Attacker:    actor,
		Target:      t,
		Source:      SourceWeapon,
		Weapon:      w,
		Tier:        w.Tier,
		Element:     w.Element,
		ArmorPierce: w.ArmorPierce,
		Knockback:   w.Knockback + knockback,
	}
	e.Land(e.calc.Compute(e, hit))
	if (w.Strikes >= 2 || actor.Statuses.Has(status.Flurry)) && t.HP > 0 && actor.HP > 0 {
		e.logf(CategoryCombat, "%s strikes again", actor.Name)
		second := hit
		second.Knockback = w.Knockback
		e.Land(e.calc.Compute(e, second))
	}
	if sh := t.Equipment.Shield; sh != nil && sh.CounterDice != "" && w.IsMelee() && actor.HP > 0 && t.HP > 0 {
		if roll, err := e.deps.Dice.RollExpr(sh.CounterDice); err == nil {
			dmg := actor.ApplyDamage(roll.Total())
			e.logf(CategoryCombat, "%s's %s counters %s for %d", t.Name, sh.Name, actor.Name, dmg)
		}
	}
}

func (e *Encounter) flee(actor *Combatant) (bool, error) {
	if e.opts.Inescapable {
		return false, reject(KindInvalidState, "there is no escape")
	}
	if actor.Role != RolePlayer && actor.Role != RoleAlly {
		return false, reject(KindInvalidState, "%s cannot flee", actor.Name)
	}
	enemies := e.Hostiles(actor)
	mean := 0.0
	for _, en := range enemies {
		mean += float64(en.Stats.Speed)
	}
	if len(enemies) > 0 {
		mean /= float64(len(enemies))
	}
	c := FleeChance(actor.Stats.Speed, mean)
	if !e.deps.Chance.RollFor(c, actor.ChancePassive()) {
		e.logf(CategoryCombat, "%s fails to escape", actor.Name)
		return true, nil
	}
	if actor.Role == RolePlayer {
		e.logf(CategoryCombat, "%s escapes", actor.Name)
		e.finish(eventEscape)
		return true, nil
	}
	e.detach(actor)
	e.logf(CategoryCombat, "%s flees the battle", actor.Name)
	return true, nil
}

// FleeChance is 0.5 + 0.05 per point of speed over the mean enemy speed, clamped to [0.1, 0.9].
func FleeChance(speed int, meanEnemySpeed float64) float64 {
	c := 0.5 + 0.05*(float64(speed)-meanEnemySpeed)
	if c < 0.1 {
		return 0.1
	}
	if c > 0.9 {
		return 0.9
	}
	return c
}

// StruggleChance is 0.35 + 0.02 per point of Strength, capped at 0.85.
func StruggleChance(strength int) float64 {
	c := 0.35 + 0.02*float64(strength)
	if c > 0.85 {
		return 0.85
	}
	if c < 0 {
		return 0
	}
	return c
}

func (e *Encounter) struggle(actor *Combatant) (bool, error) {
	if !actor.Restrained() {
		return false, reject(KindInvalidState, "%s is not restrained", actor.Name)
	}
	if !e.deps.Chance.RollFor(StruggleChance(actor.Stats.Strength), actor.ChancePassive()) {
		e.logf(CategoryCombat, "%s struggles in vain", actor.Name)
		return true, nil
	}
	if actor.Swallowed() && !e.freeSwallowed(actor) {
		e.logf(CategoryCombat, "%s breaks free but has nowhere to go", actor.Name)
		return true, nil
	}
	if ids := actor.Statuses.Unbind(); len(ids) > 0 {
		e.logf(CategoryStatus, "%s breaks free", actor.Name)
	}
	return true, nil
}

// freeSwallowed frees a swallowed combatant next to its swallower.
func (e *Encounter) freeSwallowed(victim *Combatant) bool {
	swallower, ok := e.Combatant(victim.Flags.SwallowedBy)
	var spot grid.Pos
	found := false
	if ok && swallower.Pos.IsPlaced() {
		if swallower.HP <= 0 && e.grid.CanStand(e.MoverFor(victim), swallower.Pos) && e.Occupant(swallower.Pos) == nil {
			spot, found = swallower.Pos, true
		}
		for _, d := range grid.Cardinals {
			if found {
				break
			}
			p := swallower.Pos.Add(d)
			if e.grid.CanStand(e.MoverFor(victim), p) {
				spot, found = p, true
			}
		}
	}
	if !found {
		return false
	}
	victim.Statuses.Remove(status.Swallowed)
	victim.Flags.SwallowedBy = ""
	victim.Pos = spot
	e.timeline.Append(StepMove, victim.ID, spot, "release")
	e.logf(CategoryCombat, "%s escapes to %s", victim.Name, spot)
	return true
}

func (e *Encounter) swallow(actor *Combatant, id string) (bool, error) {
	if !actor.Traits.Swallow {
		return false, reject(KindInvalidState, "%s cannot swallow", actor.Name)
	}
	t, err := e.hostileTarget(actor, id)
	if err != nil {
		return false, err
	}
	if actor.Pos.Distance(t.Pos) != 1 {
		return false, reject(KindInvalidTarget, "%s is not adjacent", t.Name)
	}
	for _, o := range e.combatants {
		if o.Flags.SwallowedBy == actor.ID && o.Swallowed() {
			return false, reject(KindInvalidState, "%s is already full", actor.Name)
		}
	}
	def, ok := e.deps.Statuses.Get(status.Swallowed)
	if !ok {
		return false, reject(KindConfigurationGap, "status %q is not registered", status.Swallowed)
	}
	per := actor.Traits.SwallowDamage
	if per < 1 {
		per = 1
	}
	if err := t.Statuses.Apply(def, status.Indefinite, 0, per); err != nil {
		return false, reject(KindConfigurationGap, "%v", err)
	}
	t.Flags.SwallowedBy = actor.ID
	t.Pos = grid.Unplaced
	e.logf(CategoryCombat, "%s swallows %s", actor.Name, t.Name)
	return true, nil
}

// detach removes an ally from play without deleting it.
func (e *Encounter) detach(c *Combatant) {
	c.Flags.Fled = true
	c.Pos = grid.Unplaced
	c.Flags.Toggles = make(map[string]bool)
}

func (e *Encounter) finish(event string) {
	if err := e.lifecycle.Event(context.Background(), event); err != nil {
		e.logger.Debug("lifecycle transition ignored", zap.String("event", event), zap.Error(err))
		return
	}
	for _, c := range e.combatants {
		c.Statuses.Clear()
	}
	e.logf(CategorySystem, "encounter over: %s", e.Outcome())
	e.timeline.Append(StepPhase, "", grid.Unplaced, string(e.Outcome()))
}
