package combat

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

const (
	defaultPowerMultiplier = 1.5
	droneSummonReach       = 2
)

// pendingAbility is a begun but uncommitted skill.
type pendingAbility struct {
	actor     *Combatant
	skill     *ruleset.SkillDef
	signature bool
}

// Pending reports the skill awaiting confirmation, if any.
func (e *Encounter) Pending() (actorID, skillID string, ok bool) {
	if e.pending == nil {
		return "", "", false
	}
	return e.pending.actor.ID, e.pending.skill.ID, true
}

// Begin records a deferred ability for actor without charging anything.
//
// Postcondition: on success Pending reports the skill; MP, cooldowns and the
// turn are unchanged.
func (e *Encounter) Begin(actor *Combatant, skillID string) error {
	if err := e.acquire(); err != nil {
		return err
	}
	defer e.release()
	p, err := e.begin(actor, skillID)
	if err != nil {
		return err
	}
	e.pending = p
	e.logf(CategoryCombat, "%s readies %s", actor.Name, p.skill.Name)
	return nil
}

// Confirm validates the target of the pending ability and only then deducts
// its cost and resolves it. A rejected target keeps the ability pending; an
// actor that died or was swallowed since Begin loses it.
func (e *Encounter) Confirm(target string, cell grid.Pos) (bool, error) {
	if err := e.acquire(); err != nil {
		return false, err
	}
	defer e.release()
	if e.pending == nil {
		return false, reject(KindInvalidState, "no ability is pending")
	}
	if a := e.pending.actor; !a.IsAlive() || a.Restrained() {
		e.logf(CategoryCombat, "%s loses %s", a.Name, e.pending.skill.Name)
		e.pending = nil
		return false, reject(KindInvalidState, "%s cannot act", a.Name)
	}
	consumed, err := e.confirm(e.pending, target, cell)
	if err != nil {
		e.logf(CategorySystem, "%s cannot use %s: %v", e.pending.actor.Name, e.pending.skill.Name, err)
		return false, err
	}
	e.pending = nil
	e.CheckEnd()
	e.render()
	return consumed, nil
}

// Cancel drops the pending ability. It never charges anything.
func (e *Encounter) Cancel() {
	if e.pending != nil {
		e.logf(CategoryCombat, "%s lowers %s", e.pending.actor.Name, e.pending.skill.Name)
	}
	e.pending = nil
}

func (e *Encounter) begin(actor *Combatant, skillID string) (*pendingAbility, error) {
	if !actor.IsAlive() || actor.Restrained() {
		return nil, reject(KindInvalidState, "%s cannot act", actor.Name)
	}
	sk, ok := e.deps.Rules.Skill(skillID)
	if !ok {
		return nil, reject(KindConfigurationGap, "unknown skill %q", skillID)
	}
	if !actor.KnowsSkill(sk.ID) {
		return nil, reject(KindConfigurationGap, "%s does not know %s", actor.Name, sk.Name)
	}
	p := &pendingAbility{
		actor:     actor,
		skill:     sk,
		signature: actor.Class != nil && actor.Class.Signature == sk.ID,
	}
	if err := e.affordable(p); err != nil {
		return nil, err
	}
	return p, nil
}

// CanUseSkill reports whether actor could begin skillID right now. Target
// validation happens only on confirmation.
func (e *Encounter) CanUseSkill(actor *Combatant, skillID string) error {
	_, err := e.begin(actor, skillID)
	return err
}

func (e *Encounter) affordable(p *pendingAbility) error {
	a, sk := p.actor, p.skill
	if p.signature && sk.OncePerEncounter && a.Flags.SignatureUsed {
		return reject(KindInvalidState, "%s was already used", sk.Name)
	}
	if cd := a.Cooldowns[sk.ID]; cd > 0 {
		return reject(KindInvalidState, "%s recharges in %d rounds", sk.Name, cd)
	}
	if sk.Kind != ruleset.SkillToggle && a.MP < sk.MPCost {
		return reject(KindInsufficientResource, "%s needs %d MP, has %d", sk.Name, sk.MPCost, a.MP)
	}
	return nil
}

// useSkill resolves skillID in one go. A deferred skill is staged first: with
// no target or cell it stays pending and the turn is kept, and a rejected
// target leaves it pending for another Confirm.
func (e *Encounter) useSkill(actor *Combatant, skillID string, in Intent) (bool, error) {
	p, err := e.begin(actor, skillID)
	if err != nil {
		return false, err
	}
	if !p.skill.Deferred {
		return e.confirm(p, in.Target, in.Cell)
	}
	e.pending = p
	if in.Target == "" && !in.Cell.IsPlaced() {
		e.logf(CategoryCombat, "%s readies %s", actor.Name, p.skill.Name)
		return false, nil
	}
	consumed, err := e.confirm(p, in.Target, in.Cell)
	if err != nil {
		return false, err
	}
	e.pending = nil
	return consumed, nil
}

func (e *Encounter) signature(actor *Combatant, in Intent) (bool, error) {
	if actor.Class == nil || actor.Class.Signature == "" {
		return false, reject(KindInvalidState, "%s has no signature ability", actor.Name)
	}
	return e.useSkill(actor, actor.Class.Signature, in)
}

// confirm validates, charges and resolves p.
func (e *Encounter) confirm(p *pendingAbility, target string, cell grid.Pos) (bool, error) {
	if !p.actor.IsAlive() || p.actor.Restrained() {
		return false, reject(KindInvalidState, "%s cannot act", p.actor.Name)
	}
	if err := e.affordable(p); err != nil {
		return false, err
	}
	a, sk := p.actor, p.skill
	if sk.Kind == ruleset.SkillToggle {
		on := !a.Flags.Toggles[sk.ID]
		a.Flags.Toggles[sk.ID] = on
		if p.signature && sk.OncePerEncounter {
			a.Flags.SignatureUsed = true
		}
		state := "off"
		if on {
			state = "on"
		}
		e.logf(CategoryCombat, "%s turns %s %s", a.Name, sk.Name, state)
		return false, nil
	}
	run, err := e.prepareSkill(a, sk, target, cell)
	if err != nil {
		return false, err
	}
	a.SpendMP(sk.MPCost)
	if sk.Cooldown > 0 {
		a.Cooldowns[sk.ID] = sk.Cooldown
	}
	if p.signature {
		a.Flags.SignatureUsed = true
	}
	e.logf(CategoryCombat, "%s uses %s", a.Name, sk.Name)
	run()
	return true, nil
}

// prepareSkill validates a skill's target and returns its resolution. Nothing
// is mutated until the returned function runs.
func (e *Encounter) prepareSkill(a *Combatant, sk *ruleset.SkillDef, target string, cell grid.Pos) (func(), error) {
	switch sk.Kind {
	case ruleset.SkillPowerStrike:
		t, err := e.attackTarget(a, target)
		if err != nil {
			return nil, err
		}
		mult := sk.Multiplier
		if mult <= 0 {
			mult = defaultPowerMultiplier
		}
		return func() {
			a.Scratch.AttackMultiplier = mult
			e.strike(a, t, 0)
			a.Scratch.AttackMultiplier = 0
		}, nil
	case ruleset.SkillKnockbackStrike:
		t, err := e.attackTarget(a, target)
		if err != nil {
			return nil, err
		}
		return func() { e.strike(a, t, sk.Distance) }, nil
	case ruleset.SkillDash:
		if _, err := e.ValidateMove(a, cell, sk.Distance); err != nil {
			return nil, err
		}
		return func() { _, _ = e.move(a, cell, sk.Distance) }, nil
	case ruleset.SkillWarCry:
		def, ok := e.deps.Statuses.Get(sk.Status)
		if !ok {
			return nil, reject(KindConfigurationGap, "unknown status %q", sk.Status)
		}
		return func() {
			e.applyStatus(a, def, sk.Duration, sk.Multiplier, 0)
			for _, f := range e.Friendlies(a) {
				e.applyStatus(f, def, sk.Duration, sk.Multiplier, 0)
			}
		}, nil
	case ruleset.SkillHealSelf:
		expr, err := dice.Parse(sk.Heal)
		if err != nil {
			return nil, reject(KindConfigurationGap, "skill %s heal %q: %v", sk.ID, sk.Heal, err)
		}
		return func() {
			got := a.Heal(e.deps.Dice.Roll(expr).Total())
			e.logf(CategoryCombat, "%s recovers %d HP", a.Name, got)
		}, nil
	case ruleset.SkillSummonDrone:
		return e.prepareSummon(a, sk, cell)
	default:
		return nil, reject(KindConfigurationGap, "skill kind %q", sk.Kind)
	}
}

func (e *Encounter) prepareSummon(a *Combatant, sk *ruleset.SkillDef, cell grid.Pos) (func(), error) {
	for _, d := range e.Drones(a.ID) {
		if d.IsAlive() {
			return nil, reject(KindInvalidState, "%s already has a drone", a.Name)
		}
	}
	tmpl, ok := e.deps.NPCs.Get(sk.Drone)
	if !ok {
		return nil, reject(KindConfigurationGap, "unknown drone template %q", sk.Drone)
	}
	if !cell.IsPlaced() || a.Pos.Distance(cell) > droneSummonReach {
		return nil, reject(KindIllegalPosition, "%s is out of summoning reach", cell)
	}
	probe := &Combatant{Traits: tmpl.Traits}
	if !e.grid.CanStand(e.MoverFor(probe), cell) {
		return nil, reject(KindIllegalPosition, "cannot place a drone on %s", cell)
	}
	drone, err := FromTemplate("drone-"+uuid.NewString(), RoleDrone, tmpl, e.deps.Items)
	if err != nil {
		return nil, reject(KindConfigurationGap, "%v", err)
	}
	drone.OwnerID = a.ID
	drone.Pos = cell
	return func() {
		e.combatants = append(e.combatants, drone)
		e.timeline.Append(StepMove, drone.ID, cell, "summon")
		e.logf(CategoryCombat, "%s deploys %s at %s", a.Name, drone.Name, cell)
	}, nil
}
